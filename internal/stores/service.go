package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/api/validators"
	"github.com/basketwise/basketwise-backend/internal/users"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

// ServiceParams groups dependencies for the store service.
type ServiceParams struct {
	Repo     *Repository
	UserRepo *users.Repository
}

// Service exposes business rules for headquarters and store management.
type Service interface {
	CreateHQ(ctx context.Context, input CreateHQInput) (HeadquartersDTO, error)
	ListHQ(ctx context.Context) ([]HeadquartersDTO, error)
	CreateStore(ctx context.Context, input CreateStoreInput) (StoreDTO, error)
	GetStore(ctx context.Context, id uuid.UUID) (StoreDTO, error)
	ListStores(ctx context.Context, hqID *uuid.UUID, limit, offset int) ([]StoreDTO, error)
	UpdateStore(ctx context.Context, id uuid.UUID, input UpdateStoreInput) (StoreDTO, error)
	DeleteStore(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	userRepo *users.Repository
}

// NewService builds a store service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{repo: params.Repo, userRepo: params.UserRepo}, nil
}

func (s *service) CreateHQ(ctx context.Context, input CreateHQInput) (HeadquartersDTO, error) {
	name := validators.SanitizeString(input.Name, 200)
	if name == "" {
		return HeadquartersDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	hq := &models.Headquarters{Name: name, Website: input.Website}
	if err := s.repo.CreateHQ(ctx, hq); err != nil {
		return HeadquartersDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create headquarters")
	}
	return hqToDTO(hq), nil
}

func (s *service) ListHQ(ctx context.Context) ([]HeadquartersDTO, error) {
	rows, err := s.repo.ListHQ(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list headquarters")
	}
	out := make([]HeadquartersDTO, 0, len(rows))
	for i := range rows {
		out = append(out, hqToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateStore(ctx context.Context, input CreateStoreInput) (StoreDTO, error) {
	if input.HQID == uuid.Nil {
		return StoreDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "hq id is required")
	}
	if _, err := s.repo.FindHQByID(ctx, input.HQID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StoreDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "headquarters not found")
		}
		return StoreDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load headquarters")
	}

	if input.OwnerID != nil {
		if err := s.ensureMerchant(ctx, *input.OwnerID); err != nil {
			return StoreDTO{}, err
		}
	}

	store := &models.Store{
		HQID:     input.HQID,
		Name:     validators.SanitizeString(input.Name, 200),
		Location: validators.SanitizeString(input.Location, 300),
		Lat:      input.Lat,
		Lng:      input.Lng,
		Phone:    input.Phone,
		Email:    input.Email,
		OwnerID:  input.OwnerID,
	}
	if store.Name == "" || store.Location == "" {
		return StoreDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name and location are required")
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return StoreDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return storeToDTO(store), nil
}

func (s *service) GetStore(ctx context.Context, id uuid.UUID) (StoreDTO, error) {
	store, err := s.loadStore(ctx, id)
	if err != nil {
		return StoreDTO{}, err
	}
	return storeToDTO(store), nil
}

func (s *service) ListStores(ctx context.Context, hqID *uuid.UUID, limit, offset int) ([]StoreDTO, error) {
	rows, err := s.repo.List(ctx, hqID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, storeToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) UpdateStore(ctx context.Context, id uuid.UUID, input UpdateStoreInput) (StoreDTO, error) {
	store, err := s.loadStore(ctx, id)
	if err != nil {
		return StoreDTO{}, err
	}

	if input.Name != nil {
		store.Name = validators.SanitizeString(*input.Name, 200)
	}
	if input.Location != nil {
		store.Location = validators.SanitizeString(*input.Location, 300)
	}
	if input.Lat != nil {
		store.Lat = input.Lat
	}
	if input.Lng != nil {
		store.Lng = input.Lng
	}
	if input.Phone != nil {
		store.Phone = input.Phone
	}
	if input.Email != nil {
		store.Email = input.Email
	}
	if input.OwnerID != nil {
		if err := s.ensureMerchant(ctx, *input.OwnerID); err != nil {
			return StoreDTO{}, err
		}
		store.OwnerID = input.OwnerID
	}
	if store.Name == "" || store.Location == "" {
		return StoreDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name and location are required")
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return StoreDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return storeToDTO(store), nil
}

func (s *service) DeleteStore(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

func (s *service) loadStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) ensureMerchant(ctx context.Context, userID uuid.UUID) error {
	owner, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "owner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}
	if owner.Role != enums.UserRoleMerchant {
		return pkgerrors.New(pkgerrors.CodeValidation, "store owner must be a merchant account")
	}
	return nil
}
