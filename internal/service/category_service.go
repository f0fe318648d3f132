package service

import (
	"context"
	"errors"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/model"
	"github.com/omfen/fenntech-internal-system-sub001/internal/pricing"
	"github.com/omfen/fenntech-internal-system-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category write rejections. Handlers map these to 4xx; anything else that
// bubbles up from the repository is a server fault.
var (
	ErrInvalidMarkup    = errors.New("markup percentage must be between 0 and 1000")
	ErrCategoryExists   = errors.New("a category with that name already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryReserved = errors.New("classifier categories cannot be renamed or deleted")
)

// CategoryService defines business operations for pricing categories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func mapCategory(c model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:               c.ID,
		Name:             c.Name,
		MarkupPercentage: c.MarkupPercentage,
	}
}

// validMarkup enforces the write-time markup bound [0, 1000]. Priced line
// items never re-validate — they carry frozen snapshots.
func validMarkup(m decimal.Decimal) bool {
	return !m.IsNegative() && !m.GreaterThan(pricing.MaxCategoryMarkup)
}

func isClassifierReserved(name string) bool {
	for _, reserved := range pricing.ReservedCategoryNames {
		if name == reserved {
			return true
		}
	}
	return false
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error) {
	if !validMarkup(req.MarkupPercentage) {
		return dto.CategoryResponse{}, ErrInvalidMarkup
	}

	existing, err := s.repo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoryResponse{}, err
	}
	if existing != nil {
		return dto.CategoryResponse{}, ErrCategoryExists
	}

	c := &model.Category{
		Name:             req.Name,
		MarkupPercentage: req.MarkupPercentage,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategory(c))
	}
	return result, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, ErrCategoryNotFound
		}
		return dto.CategoryResponse{}, err
	}

	if req.Name != nil && *req.Name != c.Name {
		// Renaming a classifier category would orphan its keyword rule.
		if isClassifierReserved(c.Name) {
			return dto.CategoryResponse{}, ErrCategoryReserved
		}
		existing, err := s.repo.FindByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, err
		}
		if existing != nil && existing.ID != id {
			return dto.CategoryResponse{}, ErrCategoryExists
		}
		c.Name = *req.Name
	}
	if req.MarkupPercentage != nil {
		if !validMarkup(*req.MarkupPercentage) {
			return dto.CategoryResponse{}, ErrInvalidMarkup
		}
		c.MarkupPercentage = *req.MarkupPercentage
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	// The classifier's ten categories must stay seeded or invoice pricing
	// starts failing with unconfigured-category errors.
	if isClassifierReserved(c.Name) {
		return ErrCategoryReserved
	}
	return s.repo.Delete(ctx, id)
}
