package models

import (
	"gorm.io/gorm"
)

// GetUserByEmail retrieves a non-deleted user by email
func GetUserByEmail(email string, db *gorm.DB) (*User, error) {
	user := &User{}
	if err := db.Where("email = ? AND is_deleted = false", email).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetDocumentByID retrieves a non-deleted document by id
func GetDocumentByID(id string, db *gorm.DB) (*Document, error) {
	doc := &Document{}
	if err := db.Where("id = ? AND is_deleted = false", id).First(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// TenantIDs returns the ids of every active owner account, i.e. every tenant.
func TenantIDs(db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.Model(&User{}).
		Where("account_type = ? AND is_deleted = false", AccountTypeOwner).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
