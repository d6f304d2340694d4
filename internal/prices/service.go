package prices

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/api/validators"
	"github.com/basketwise/basketwise-backend/internal/products"
	"github.com/basketwise/basketwise-backend/internal/stores"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

// ServiceParams groups dependencies for the price service.
type ServiceParams struct {
	Repo        *Repository
	ProductRepo *products.Repository
	StoreRepo   *stores.Repository
}

// Service exposes business rules for store pricing.
type Service interface {
	GetPrices(ctx context.Context, storeID uuid.UUID, gtins []string) (map[string]PriceQuote, error)
	Averages(ctx context.Context, gtins []string) ([]AverageDTO, error)
	Upsert(ctx context.Context, storeID uuid.UUID, input UpsertPriceInput) (PriceDTO, error)
	BulkUpsert(ctx context.Context, storeID uuid.UUID, input BulkUpsertInput) ([]PriceDTO, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]PriceDTO, error)
	Delete(ctx context.Context, storeID uuid.UUID, gtin string) error
}

type service struct {
	repo        *Repository
	productRepo *products.Repository
	storeRepo   *stores.Repository
}

// NewService builds a price service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price repo is required")
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

// GetPrices returns the store's quotes keyed by GTIN. Uncarried GTINs are absent.
func (s *service) GetPrices(ctx context.Context, storeID uuid.UUID, gtins []string) (map[string]PriceQuote, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	rows, err := s.repo.GetForStore(ctx, storeID, gtins)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load prices")
	}
	quotes := make(map[string]PriceQuote, len(rows))
	for _, row := range rows {
		quotes[row.ProductGTIN] = PriceQuote{
			GTIN:    row.ProductGTIN,
			Price:   row.Price,
			InStock: row.InStock,
		}
	}
	return quotes, nil
}

// Averages returns the cross-store mean per GTIN for the shopper list view.
func (s *service) Averages(ctx context.Context, gtins []string) ([]AverageDTO, error) {
	normalized := make([]string, 0, len(gtins))
	for _, g := range gtins {
		gtin, err := validators.ValidateGTIN(g)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, gtin)
	}
	avgs, err := s.repo.Averages(ctx, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load averages")
	}
	out := make([]AverageDTO, 0, len(avgs))
	for _, gtin := range normalized {
		if avg, ok := avgs[gtin]; ok {
			out = append(out, AverageDTO{ProductGTIN: gtin, AvgPrice: avg})
		}
	}
	return out, nil
}

// Upsert writes one price for the owner's store.
func (s *service) Upsert(ctx context.Context, storeID uuid.UUID, input UpsertPriceInput) (PriceDTO, error) {
	row, err := s.buildRow(ctx, storeID, input)
	if err != nil {
		return PriceDTO{}, err
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return PriceDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert price")
	}
	return toDTO(row), nil
}

// BulkUpsert writes a batch of prices for the owner's store. The whole batch
// is validated before any row is written.
func (s *service) BulkUpsert(ctx context.Context, storeID uuid.UUID, input BulkUpsertInput) ([]PriceDTO, error) {
	if len(input.Prices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one price is required")
	}

	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}

	gtins := make([]string, 0, len(input.Prices))
	seen := make(map[string]struct{}, len(input.Prices))
	rows := make([]models.StorePrice, 0, len(input.Prices))
	for _, item := range input.Prices {
		gtin, err := validators.ValidateGTIN(item.ProductGTIN)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[gtin]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate gtin in batch").WithDetails(map[string]any{"gtin": gtin})
		}
		seen[gtin] = struct{}{}
		gtins = append(gtins, gtin)

		price, currency, inStock, err := normalizePrice(item)
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.StorePrice{
			StoreID:     storeID,
			ProductGTIN: gtin,
			Price:       price,
			Currency:    currency,
			InStock:     inStock,
		})
	}

	missing, err := s.productRepo.MissingGTINs(ctx, gtins)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check catalog")
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown gtins in batch").WithDetails(map[string]any{"missing": missing})
	}

	if err := s.repo.BulkUpsert(ctx, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bulk upsert prices")
	}

	out := make([]PriceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

// ListByStore pages through the owner's price book.
func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]PriceDTO, error) {
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list prices")
	}
	out := make([]PriceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

// Delete removes one price from the owner's price book.
func (s *service) Delete(ctx context.Context, storeID uuid.UUID, gtin string) error {
	normalized, err := validators.ValidateGTIN(gtin)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, storeID, normalized); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "price not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete price")
	}
	return nil
}

func (s *service) buildRow(ctx context.Context, storeID uuid.UUID, input UpsertPriceInput) (*models.StorePrice, error) {
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}

	gtin, err := validators.ValidateGTIN(input.ProductGTIN)
	if err != nil {
		return nil, err
	}
	exists, err := s.productRepo.ExistsByGTIN(ctx, gtin)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check catalog")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"gtin": gtin})
	}

	price, currency, inStock, err := normalizePrice(input)
	if err != nil {
		return nil, err
	}

	return &models.StorePrice{
		StoreID:     storeID,
		ProductGTIN: gtin,
		Price:       price,
		Currency:    currency,
		InStock:     inStock,
	}, nil
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

func normalizePrice(input UpsertPriceInput) (decimal.Decimal, enums.Currency, bool, error) {
	if input.Price.IsNegative() {
		return decimal.Decimal{}, "", false, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	currency := enums.CurrencyUSD
	if input.Currency != "" {
		parsed, err := enums.ParseCurrency(input.Currency)
		if err != nil {
			return decimal.Decimal{}, "", false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
		currency = parsed
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	return input.Price.Round(2), currency, inStock, nil
}
