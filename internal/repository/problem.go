package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devfolio/internal/apperr"
	"devfolio/internal/database"
)

// ProblemRepository persists Q&A entries.
type ProblemRepository struct {
	db *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{db: db}
}

// ProblemInput carries the validated fields of a new problem.
type ProblemInput struct {
	Question string `validate:"required,min=1,max=4000"`
	Answer   string `validate:"required,min=1,max=8000"`
}

// ProblemPatch carries a partial update; nil fields are left unchanged.
type ProblemPatch struct {
	Question *string `validate:"omitempty,min=1,max=4000"`
	Answer   *string `validate:"omitempty,min=1,max=8000"`
}

func (p ProblemPatch) empty() bool {
	return p.Question == nil && p.Answer == nil
}

// Create validates and persists a new problem.
func (r *ProblemRepository) Create(ctx context.Context, input ProblemInput) (database.Problem, error) {
	if err := checkInput(input); err != nil {
		return database.Problem{}, err
	}

	problem := database.Problem{Question: input.Question, Answer: input.Answer}
	if err := r.db.WithContext(ctx).Create(&problem).Error; err != nil {
		return database.Problem{}, fmt.Errorf("create problem: %w", err)
	}
	return problem, nil
}

// GetByID loads one problem by its identifier.
func (r *ProblemRepository) GetByID(ctx context.Context, rawID string) (database.Problem, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return database.Problem{}, err
	}

	var problem database.Problem
	if err := r.db.WithContext(ctx).First(&problem, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return database.Problem{}, fmt.Errorf("problem %d: %w", id, apperr.ErrNotFound)
		}
		return database.Problem{}, fmt.Errorf("query problem: %w", err)
	}
	return problem, nil
}

// List returns all problems.
func (r *ProblemRepository) List(ctx context.Context) ([]database.Problem, error) {
	var problems []database.Problem
	if err := r.db.WithContext(ctx).Find(&problems).Error; err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	return problems, nil
}

// Update revalidates and writes the provided fields.
func (r *ProblemRepository) Update(ctx context.Context, rawID string, patch ProblemPatch) (database.Problem, error) {
	problem, err := r.GetByID(ctx, rawID)
	if err != nil {
		return database.Problem{}, err
	}
	if patch.empty() {
		return problem, nil
	}
	if err := checkInput(patch); err != nil {
		return database.Problem{}, err
	}

	updates := map[string]any{}
	if patch.Question != nil {
		updates["question"] = *patch.Question
	}
	if patch.Answer != nil {
		updates["answer"] = *patch.Answer
	}

	if err := r.db.WithContext(ctx).Model(&problem).Updates(updates).Error; err != nil {
		return database.Problem{}, fmt.Errorf("update problem: %w", err)
	}
	if err := r.db.WithContext(ctx).First(&problem, problem.ID).Error; err != nil {
		return database.Problem{}, fmt.Errorf("reload problem: %w", err)
	}
	return problem, nil
}

// Delete removes one problem.
func (r *ProblemRepository) Delete(ctx context.Context, rawID string) error {
	problem, err := r.GetByID(ctx, rawID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&database.Problem{}, problem.ID).Error; err != nil {
		return fmt.Errorf("delete problem: %w", err)
	}
	return nil
}
