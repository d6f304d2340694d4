package lists

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/api/validators"
	"github.com/basketwise/basketwise-backend/internal/products"
	"github.com/basketwise/basketwise-backend/internal/stores"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

// ServiceParams groups dependencies for the list service.
type ServiceParams struct {
	Repo        *Repository
	ProductRepo *products.Repository
	StoreRepo   *stores.Repository
}

// Service exposes business rules for shopping lists. Every operation is
// scoped to the calling shopper; touching another user's list reads as
// not-found, never forbidden.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateListInput) (ListDTO, error)
	Get(ctx context.Context, userID, listID uuid.UUID) (ListDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]ListDTO, error)
	Update(ctx context.Context, userID, listID uuid.UUID, input UpdateListInput) (ListDTO, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error
	SetItem(ctx context.Context, userID, listID uuid.UUID, input SetItemInput) (ListDTO, error)
	ReplaceItems(ctx context.Context, userID, listID uuid.UUID, input ReplaceItemsInput) (ListDTO, error)
}

type service struct {
	repo        *Repository
	productRepo *products.Repository
	storeRepo   *stores.Repository
}

// NewService builds a list service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.StoreRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store repo is required")
	}
	return &service{
		repo:        params.Repo,
		productRepo: params.ProductRepo,
		storeRepo:   params.StoreRepo,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateListInput) (ListDTO, error) {
	if userID == uuid.Nil {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	name := validators.SanitizeString(input.Name, 200)
	if name == "" {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Budget != nil && input.Budget.IsNegative() {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "budget cannot be negative")
	}
	if input.AssignedStoreID != nil {
		if err := s.ensureStore(ctx, *input.AssignedStoreID); err != nil {
			return ListDTO{}, err
		}
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return ListDTO{}, err
	}

	list := &models.ShoppingList{
		UserID:          userID,
		Name:            name,
		Budget:          input.Budget,
		AssignedStoreID: input.AssignedStoreID,
		Items:           items,
	}
	if err := s.repo.Create(ctx, list); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create list")
	}
	return toDTO(list), nil
}

func (s *service) Get(ctx context.Context, userID, listID uuid.UUID) (ListDTO, error) {
	list, err := s.loadOwned(ctx, userID, listID)
	if err != nil {
		return ListDTO{}, err
	}
	return toDTO(list), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ListDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lists")
	}
	out := make([]ListDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID, listID uuid.UUID, input UpdateListInput) (ListDTO, error) {
	list, err := s.loadOwned(ctx, userID, listID)
	if err != nil {
		return ListDTO{}, err
	}

	if input.Name != nil {
		name := validators.SanitizeString(*input.Name, 200)
		if name == "" {
			return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		list.Name = name
	}
	if input.Budget != nil {
		if input.Budget.IsNegative() {
			return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "budget cannot be negative")
		}
		list.Budget = input.Budget
	}
	if input.AssignedStoreID != nil {
		if err := s.ensureStore(ctx, *input.AssignedStoreID); err != nil {
			return ListDTO{}, err
		}
		list.AssignedStoreID = input.AssignedStoreID
	}

	if err := s.repo.Update(ctx, list); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update list")
	}
	return s.Get(ctx, userID, listID)
}

func (s *service) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, listID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete list")
	}
	return nil
}

// SetItem sets one line's quantity. A quantity at or below zero removes the line.
func (s *service) SetItem(ctx context.Context, userID, listID uuid.UUID, input SetItemInput) (ListDTO, error) {
	if _, err := s.loadOwned(ctx, userID, listID); err != nil {
		return ListDTO{}, err
	}

	gtin, err := validators.ValidateGTIN(input.ProductGTIN)
	if err != nil {
		return ListDTO{}, err
	}

	if input.Quantity <= 0 {
		if err := s.repo.DeleteItem(ctx, listID, gtin); err != nil {
			return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove item")
		}
		return s.Get(ctx, userID, listID)
	}

	exists, err := s.productRepo.ExistsByGTIN(ctx, gtin)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check catalog")
	}
	if !exists {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"gtin": gtin})
	}

	if err := s.repo.UpsertItem(ctx, listID, gtin, input.Quantity); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set item")
	}
	return s.Get(ctx, userID, listID)
}

// ReplaceItems swaps the entire item set transactionally.
func (s *service) ReplaceItems(ctx context.Context, userID, listID uuid.UUID, input ReplaceItemsInput) (ListDTO, error) {
	if _, err := s.loadOwned(ctx, userID, listID); err != nil {
		return ListDTO{}, err
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return ListDTO{}, err
	}

	if err := s.repo.ReplaceItems(ctx, listID, items); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace items")
	}
	return s.Get(ctx, userID, listID)
}

func (s *service) buildItems(ctx context.Context, inputs []SetItemInput) ([]models.ShoppingListItem, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(inputs))
	gtins := make([]string, 0, len(inputs))
	items := make([]models.ShoppingListItem, 0, len(inputs))
	for _, input := range inputs {
		gtin, err := validators.ValidateGTIN(input.ProductGTIN)
		if err != nil {
			return nil, err
		}
		if input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").WithDetails(map[string]any{"gtin": gtin})
		}
		if _, dup := seen[gtin]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate gtin in items").WithDetails(map[string]any{"gtin": gtin})
		}
		seen[gtin] = struct{}{}
		gtins = append(gtins, gtin)
		items = append(items, models.ShoppingListItem{ProductGTIN: gtin, Quantity: input.Quantity})
	}

	missing, err := s.productRepo.MissingGTINs(ctx, gtins)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check catalog")
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown gtins in items").WithDetails(map[string]any{"missing": missing})
	}

	return items, nil
}

func (s *service) loadOwned(ctx context.Context, userID, listID uuid.UUID) (*models.ShoppingList, error) {
	if userID == uuid.Nil || listID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and list id are required")
	}
	list, err := s.repo.FindWithItems(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list")
	}
	if list.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "list not found")
	}
	return list, nil
}

func (s *service) ensureStore(ctx context.Context, storeID uuid.UUID) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return nil
}
