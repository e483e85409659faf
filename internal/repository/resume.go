package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devfolio/internal/apperr"
	"devfolio/internal/database"
)

// ResumeRepository persists resume records.
type ResumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

// ResumeInput carries the validated fields of a new resume. Asset
// references are supplied by the asset manager.
type ResumeInput struct {
	Name       string `validate:"required,min=1,max=255"`
	Title      string `validate:"required,min=1,max=255"`
	PhoneNo    string `validate:"required,phone,max=32"`
	Email      string `validate:"required,email,max=255"`
	Experience string `validate:"required,min=1,max=8000"`
	Document   database.AssetRef
	Image      database.AssetRef
}

// ResumePatch carries a partial update; nil fields are left unchanged.
type ResumePatch struct {
	Name       *string `validate:"omitempty,min=1,max=255"`
	Title      *string `validate:"omitempty,min=1,max=255"`
	PhoneNo    *string `validate:"omitempty,phone,max=32"`
	Email      *string `validate:"omitempty,email,max=255"`
	Experience *string `validate:"omitempty,min=1,max=8000"`
	Document   *database.AssetRef
	Image      *database.AssetRef
}

func (p ResumePatch) empty() bool {
	return p.Name == nil && p.Title == nil && p.PhoneNo == nil &&
		p.Email == nil && p.Experience == nil && p.Document == nil && p.Image == nil
}

// Create validates and persists a new resume record.
func (r *ResumeRepository) Create(ctx context.Context, input ResumeInput) (database.Resume, error) {
	if err := checkInput(input); err != nil {
		return database.Resume{}, err
	}

	resume := database.Resume{
		Name:       input.Name,
		Title:      input.Title,
		PhoneNo:    input.PhoneNo,
		Email:      input.Email,
		Experience: input.Experience,
		Document:   input.Document,
		Image:      input.Image,
	}
	if err := r.db.WithContext(ctx).Create(&resume).Error; err != nil {
		return database.Resume{}, fmt.Errorf("create resume: %w", err)
	}
	return resume, nil
}

// GetByID loads one resume by its identifier.
func (r *ResumeRepository) GetByID(ctx context.Context, rawID string) (database.Resume, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return database.Resume{}, err
	}

	var resume database.Resume
	if err := r.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return database.Resume{}, fmt.Errorf("resume %d: %w", id, apperr.ErrNotFound)
		}
		return database.Resume{}, fmt.Errorf("query resume: %w", err)
	}
	return resume, nil
}

// List returns all resume records.
func (r *ResumeRepository) List(ctx context.Context) ([]database.Resume, error) {
	var resumes []database.Resume
	if err := r.db.WithContext(ctx).Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

// Update revalidates and writes the provided fields.
func (r *ResumeRepository) Update(ctx context.Context, rawID string, patch ResumePatch) (database.Resume, error) {
	resume, err := r.GetByID(ctx, rawID)
	if err != nil {
		return database.Resume{}, err
	}
	if patch.empty() {
		return resume, nil
	}
	if err := checkInput(patch); err != nil {
		return database.Resume{}, err
	}

	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.PhoneNo != nil {
		updates["phone_no"] = *patch.PhoneNo
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Experience != nil {
		updates["experience"] = *patch.Experience
	}
	if patch.Document != nil {
		updates["document_url"] = patch.Document.URL
		updates["document_public_id"] = patch.Document.PublicID
	}
	if patch.Image != nil {
		updates["image_url"] = patch.Image.URL
		updates["image_public_id"] = patch.Image.PublicID
	}

	if err := r.db.WithContext(ctx).Model(&resume).Updates(updates).Error; err != nil {
		return database.Resume{}, fmt.Errorf("update resume: %w", err)
	}
	if err := r.db.WithContext(ctx).First(&resume, resume.ID).Error; err != nil {
		return database.Resume{}, fmt.Errorf("reload resume: %w", err)
	}
	return resume, nil
}

// Delete removes one resume record.
func (r *ResumeRepository) Delete(ctx context.Context, rawID string) error {
	resume, err := r.GetByID(ctx, rawID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&database.Resume{}, resume.ID).Error; err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	return nil
}
