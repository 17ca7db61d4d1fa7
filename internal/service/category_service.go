package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
)

type categoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Upsert(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryClassCounter interface {
	CountByCategoryName(ctx context.Context, name string) (int, error)
}

// SaveCategoryRequest is the payload for creating or updating a category.
type SaveCategoryRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name" validate:"required"`
	Color *string `json:"color" validate:"omitempty,max=20"`
}

// CategoryService orchestrates category operations.
type CategoryService struct {
	repo      categoryRepository
	classes   categoryClassCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(repo categoryRepository, classes categoryClassCounter, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// Save creates or updates a category.
func (s *CategoryService) Save(ctx context.Context, req SaveCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}

	category := &models.Category{
		ID:    persistedID(req.ID),
		Name:  req.Name,
		Color: req.Color,
	}
	if category.ID != "" {
		if existing, err := s.repo.FindByID(ctx, category.ID); err == nil {
			category.CreatedAt = existing.CreatedAt
		}
	}

	if err := s.repo.Upsert(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save category")
	}
	return category, nil
}

// Delete removes a category unless a class still references it by name.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}

	count, err := s.classes.CountByCategoryName(ctx, category.Name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class references")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrReferenced, "category is still used by a class")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}
	return nil
}
