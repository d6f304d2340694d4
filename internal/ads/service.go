package ads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/api/validators"
	"github.com/basketwise/basketwise-backend/internal/stores"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

// ServiceParams groups dependencies for the ad service.
type ServiceParams struct {
	Repo      *Repository
	StoreRepo *stores.Repository
}

// Service exposes admin ad management plus the public serve surface.
type Service interface {
	Create(ctx context.Context, input CreateAdInput) (AdDTO, error)
	List(ctx context.Context, limit, offset int) ([]AdDTO, error)
	ListActive(ctx context.Context, placement string) ([]AdDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAdInput) (AdDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      *Repository
	storeRepo *stores.Repository
	now       func() time.Time
}

// NewService builds an ad service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ad repo is required")
	}
	if params.StoreRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store repo is required")
	}
	return &service{repo: params.Repo, storeRepo: params.StoreRepo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateAdInput) (AdDTO, error) {
	placement, err := enums.ParseAdPlacement(input.Placement)
	if err != nil {
		return AdDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid placement")
	}
	title := validators.SanitizeString(input.Title, 200)
	if title == "" {
		return AdDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return AdDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "ends_at must follow starts_at")
	}
	if input.StoreID != nil {
		if _, err := s.storeRepo.FindByID(ctx, *input.StoreID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AdDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
			}
			return AdDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
	}

	ad := &models.Ad{
		Title:     title,
		ImageURL:  input.ImageURL,
		TargetURL: input.TargetURL,
		Placement: placement,
		StoreID:   input.StoreID,
		Active:    true,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
	}
	if err := s.repo.Create(ctx, ad); err != nil {
		return AdDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ad")
	}
	return toDTO(ad), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]AdDTO, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ads")
	}
	out := make([]AdDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) ListActive(ctx context.Context, placement string) ([]AdDTO, error) {
	parsed, err := enums.ParseAdPlacement(placement)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid placement")
	}
	rows, err := s.repo.ListActive(ctx, parsed, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active ads")
	}
	out := make([]AdDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateAdInput) (AdDTO, error) {
	ad, err := s.load(ctx, id)
	if err != nil {
		return AdDTO{}, err
	}

	if input.Title != nil {
		title := validators.SanitizeString(*input.Title, 200)
		if title == "" {
			return AdDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		ad.Title = title
	}
	if input.ImageURL != nil {
		ad.ImageURL = *input.ImageURL
	}
	if input.TargetURL != nil {
		ad.TargetURL = input.TargetURL
	}
	if input.Active != nil {
		ad.Active = *input.Active
	}
	if input.StartsAt != nil {
		ad.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		ad.EndsAt = input.EndsAt
	}
	if ad.StartsAt != nil && ad.EndsAt != nil && ad.EndsAt.Before(*ad.StartsAt) {
		return AdDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "ends_at must follow starts_at")
	}

	if err := s.repo.Update(ctx, ad); err != nil {
		return AdDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ad")
	}
	return toDTO(ad), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "ad id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ad not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ad")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ad id is required")
	}
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ad not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}
	return ad, nil
}
