package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"devfolio/internal/apperr"
	"devfolio/internal/database"
)

// ProjectRepository persists portfolio projects.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ProjectInput carries the validated fields of a new project. The image
// reference, if any, is supplied by the asset manager.
type ProjectInput struct {
	Title        string   `validate:"required,min=1,max=255"`
	Description  string   `validate:"required,min=1,max=4000"`
	Technologies []string `validate:"required,min=1,dive,required,max=64"`
	GithubURL    string   `validate:"required,url,max=512"`
	Image        database.AssetRef
}

// ProjectPatch carries a partial update; nil fields are left unchanged.
type ProjectPatch struct {
	Title        *string   `validate:"omitempty,min=1,max=255"`
	Description  *string   `validate:"omitempty,min=1,max=4000"`
	Technologies *[]string `validate:"omitempty,min=1,dive,required,max=64"`
	GithubURL    *string   `validate:"omitempty,url,max=512"`
	Image        *database.AssetRef
}

func (p ProjectPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Technologies == nil &&
		p.GithubURL == nil && p.Image == nil
}

// Create validates and persists a new project.
func (r *ProjectRepository) Create(ctx context.Context, input ProjectInput) (database.Project, error) {
	if err := checkInput(input); err != nil {
		return database.Project{}, err
	}

	project := database.Project{
		Title:        input.Title,
		Description:  input.Description,
		Technologies: datatypes.NewJSONSlice(input.Technologies),
		GithubURL:    input.GithubURL,
		Image:        input.Image,
	}
	if err := r.db.WithContext(ctx).Create(&project).Error; err != nil {
		return database.Project{}, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// GetByID loads one project by its identifier.
func (r *ProjectRepository) GetByID(ctx context.Context, rawID string) (database.Project, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return database.Project{}, err
	}

	var project database.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return database.Project{}, fmt.Errorf("project %d: %w", id, apperr.ErrNotFound)
		}
		return database.Project{}, fmt.Errorf("query project: %w", err)
	}
	return project, nil
}

// List returns all projects. An empty slice is a valid, non-error result.
func (r *ProjectRepository) List(ctx context.Context) ([]database.Project, error) {
	var projects []database.Project
	if err := r.db.WithContext(ctx).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Update revalidates and writes the provided fields. An empty patch is a
// no-op success returning the current record.
func (r *ProjectRepository) Update(ctx context.Context, rawID string, patch ProjectPatch) (database.Project, error) {
	project, err := r.GetByID(ctx, rawID)
	if err != nil {
		return database.Project{}, err
	}
	if patch.empty() {
		return project, nil
	}
	if err := checkInput(patch); err != nil {
		return database.Project{}, err
	}

	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Technologies != nil {
		updates["technologies"] = datatypes.NewJSONSlice(*patch.Technologies)
	}
	if patch.GithubURL != nil {
		updates["github_url"] = *patch.GithubURL
	}
	if patch.Image != nil {
		updates["image_url"] = patch.Image.URL
		updates["image_public_id"] = patch.Image.PublicID
	}

	if err := r.db.WithContext(ctx).Model(&project).Updates(updates).Error; err != nil {
		return database.Project{}, fmt.Errorf("update project: %w", err)
	}
	if err := r.db.WithContext(ctx).First(&project, project.ID).Error; err != nil {
		return database.Project{}, fmt.Errorf("reload project: %w", err)
	}
	return project, nil
}

// Delete removes one project. A second delete reports ErrNotFound.
func (r *ProjectRepository) Delete(ctx context.Context, rawID string) error {
	project, err := r.GetByID(ctx, rawID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&database.Project{}, project.ID).Error; err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
