package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lexdesk/internal/models"
	"lexdesk/internal/utils"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
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

func signedToken(t *testing.T, id string) string {
	t.Helper()
	user := models.User{
		AccountType: models.AccountTypeOwner,
		Role:        models.UserRoleOwner,
		IsActive:    true,
		Email:       "owner@firm.test",
	}
	user.ID = id
	token, err := utils.GenerateJWT(user)
	require.NoError(t, err)
	return token
}

func TestValidateJWTResolvesActor(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signedToken(t, "u1")
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "auth_sessions" WHERE user_id = \$1 AND token = \$2 AND expires_at > \$3`).
		WithArgs("u1", token, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tenant_id", "token"}).
			AddRow("s1", "u1", "u1", token))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND is_deleted = false`).
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "account_type", "role", "is_active"}).
			AddRow("u1", "owner@firm.test", "owner", "owner", true))

	m := NewAuthMiddleware(db, "test-secret")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	nextCalled := false
	err := m.validateJWT(c, token, func(echo.Context) error {
		nextCalled = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, nextCalled)
	require.NotNil(t, GetActor(c))
	assert.Equal(t, "u1", GetActor(c).ID)
	assert.Equal(t, "u1", GetTenantID(c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateJWTSkipsSoftDeletedAccounts(t *testing.T) {
	// A stale session row for a soft-deleted account must not resolve: the
	// account re-fetch excludes deleted rows.
	t.Setenv("JWT_SECRET", "test-secret")
	token := signedToken(t, "u1")
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "auth_sessions" WHERE user_id = \$1 AND token = \$2 AND expires_at > \$3`).
		WithArgs("u1", token, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tenant_id", "token"}).
			AddRow("s1", "u1", "u1", token))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND is_deleted = false`).
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	m := NewAuthMiddleware(db, "test-secret")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	nextCalled := false
	err := m.validateJWT(c, token, func(echo.Context) error {
		nextCalled = true
		return nil
	})

	assert.False(t, nextCalled)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
