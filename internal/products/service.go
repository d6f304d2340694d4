package products

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/api/validators"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes business rules for the GTIN catalog.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (ProductDTO, error)
	Get(ctx context.Context, gtin string) (ProductDTO, error)
	Search(ctx context.Context, query string, page pagination.Params) (SearchResult, error)
	Update(ctx context.Context, gtin string, input UpdateProductInput) (ProductDTO, error)
	Delete(ctx context.Context, gtin string) error
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (ProductDTO, error) {
	gtin, err := validators.ValidateGTIN(input.GTIN)
	if err != nil {
		return ProductDTO{}, err
	}
	description := validators.SanitizeString(input.Description, 500)
	if description == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}

	exists, err := s.repo.ExistsByGTIN(ctx, gtin)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check catalog")
	}
	if exists {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "gtin already registered")
	}

	product := &models.Product{GTIN: gtin, Description: description}
	if err := s.repo.Create(ctx, product); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return toDTO(product), nil
}

func (s *service) Get(ctx context.Context, gtin string) (ProductDTO, error) {
	normalized, err := validators.ValidateGTIN(gtin)
	if err != nil {
		return ProductDTO{}, err
	}
	product, err := s.repo.FindByGTIN(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toDTO(product), nil
}

func (s *service) Search(ctx context.Context, query string, page pagination.Params) (SearchResult, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return SearchResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(page.Limit)

	// Fetch one extra row to learn whether another page exists.
	rows, err := s.repo.Search(ctx, query, pagination.LimitWithBuffer(page.Limit), cursor)
	if err != nil {
		return SearchResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search catalog")
	}

	result := SearchResult{Products: make([]ProductDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			Key:       last.GTIN,
		})
	}
	for i := range rows {
		result.Products = append(result.Products, toDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, gtin string, input UpdateProductInput) (ProductDTO, error) {
	normalized, err := validators.ValidateGTIN(gtin)
	if err != nil {
		return ProductDTO{}, err
	}
	description := validators.SanitizeString(input.Description, 500)
	if description == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if err := s.repo.UpdateDescription(ctx, normalized, description); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.Get(ctx, normalized)
}

func (s *service) Delete(ctx context.Context, gtin string) error {
	normalized, err := validators.ValidateGTIN(gtin)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, normalized); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}
