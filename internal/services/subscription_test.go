package services

import (
	"context"
	"testing"

	"lexdesk/internal/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestExpireLapsedMarksExpired(t *testing.T) {
	// A natural lapse is not a declined payment: the sweep deactivates and
	// writes the EXPIRED status, so billing can tell the two apart.
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET .*"payment_status"=\$2`).
		WithArgs(false, string(models.PaymentStatusExpired), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireLapsedNoLapsedRows(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
