package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"devfolio/internal/apperr"
	"devfolio/internal/database"
)

// UserRepository persists accounts. Email is unique across all users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserInput carries the validated fields of a new account. PasswordHash is
// the bcrypt hash produced by the auth service, never the plaintext.
type UserInput struct {
	Name         string `validate:"required,min=1,max=64"`
	Email        string `validate:"required,email,max=255"`
	PasswordHash string `validate:"required"`
}

// Create persists a new account, rejecting duplicate emails.
func (r *UserRepository) Create(ctx context.Context, input UserInput) (database.User, error) {
	if err := checkInput(input); err != nil {
		return database.User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing database.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return database.User{}, fmt.Errorf("email %q taken: %w", email, apperr.ErrConflict)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return database.User{}, fmt.Errorf("lookup user: %w", err)
	}

	user := database.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: input.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return database.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetByEmail loads one account by email. Used by login; the caller maps a
// miss to the uninformative credentials error.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (database.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user database.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return database.User{}, fmt.Errorf("user %q: %w", email, apperr.ErrNotFound)
		}
		return database.User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// List returns all accounts. Callers must not expose the password hash.
func (r *UserRepository) List(ctx context.Context) ([]database.User, error) {
	var users []database.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Delete removes one account. A second delete reports ErrNotFound.
func (r *UserRepository) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	var user database.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
		}
		return fmt.Errorf("query user: %w", err)
	}
	if err := r.db.WithContext(ctx).Delete(&database.User{}, user.ID).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
