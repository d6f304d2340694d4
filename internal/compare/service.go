package compare

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/internal/analytics"
	"github.com/basketwise/basketwise-backend/internal/prices"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/metrics"
)

// PriceSource answers one store's quotes for a GTIN set.
type PriceSource interface {
	GetPrices(ctx context.Context, storeID uuid.UUID, gtins []string) (map[string]prices.PriceQuote, error)
}

// ListSource loads a list with its items.
type ListSource interface {
	FindWithItems(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error)
}

// StoreSource resolves store rows for validation and display names.
type StoreSource interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Store, error)
}

// ServiceParams groups dependencies for the comparison service.
type ServiceParams struct {
	Prices    PriceSource
	Lists     ListSource
	Stores    StoreSource
	Events    analytics.Recorder
	Metrics   *metrics.CompareMetrics
	MaxStores int
}

// Service ranks a shopping list across candidate stores.
type Service interface {
	Compare(ctx context.Context, userID uuid.UUID, input CompareInput) (ComparisonDTO, error)
}

type service struct {
	prices    PriceSource
	lists     ListSource
	stores    StoreSource
	events    analytics.Recorder
	metrics   *metrics.CompareMetrics
	maxStores int
}

// NewService builds a comparison service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Prices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price source is required")
	}
	if params.Lists == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list source is required")
	}
	if params.Stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store source is required")
	}
	maxStores := params.MaxStores
	if maxStores <= 0 {
		maxStores = 5
	}
	return &service{
		prices:    params.Prices,
		lists:     params.Lists,
		stores:    params.Stores,
		events:    params.Events,
		metrics:   params.Metrics,
		maxStores: maxStores,
	}, nil
}

// Compare validates everything up front, then fires all store lookups at
// once and waits for the full set. One failed lookup fails the comparison:
// a partial ranking would silently misrank the missing store.
func (s *service) Compare(ctx context.Context, userID uuid.UUID, input CompareInput) (ComparisonDTO, error) {
	if userID == uuid.Nil {
		return ComparisonDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	storeIDs, err := s.normalizeStoreIDs(input.StoreIDs)
	if err != nil {
		return ComparisonDTO{}, err
	}

	list, err := s.loadOwnedList(ctx, userID, input.ListID)
	if err != nil {
		return ComparisonDTO{}, err
	}
	if len(list.Items) == 0 {
		return ComparisonDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "list has no items")
	}

	storesByID, err := s.resolveStores(ctx, storeIDs)
	if err != nil {
		return ComparisonDTO{}, err
	}

	items := make([]Item, 0, len(list.Items))
	gtins := make([]string, 0, len(list.Items))
	for _, line := range list.Items {
		items = append(items, Item{GTIN: line.ProductGTIN, Quantity: line.Quantity})
		gtins = append(gtins, line.ProductGTIN)
	}

	results := make([]StoreResult, len(storeIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, storeID := range storeIDs {
		i, storeID := i, storeID
		g.Go(func() error {
			quotes, err := s.prices.GetPrices(gctx, storeID, gtins)
			if err != nil {
				return err
			}
			store := storesByID[storeID]
			results[i] = StoreResult{
				StoreID:   storeID,
				StoreName: store.Name,
				Tally:     Aggregate(items, quotes),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ComparisonDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store prices")
	}

	rank(results)

	s.metrics.IncComparison(strconv.Itoa(len(storeIDs)))
	if s.events != nil {
		s.events.Record(ctx, analytics.Event{
			Type:   enums.AnalyticsEventComparisonRun,
			UserID: &userID,
			ListID: &list.ID,
			Payload: map[string]any{
				"stores": len(storeIDs),
				"items":  len(items),
			},
		})
	}

	return ComparisonDTO{
		ListID:  list.ID,
		Items:   len(items),
		Results: results,
	}, nil
}

// rank orders cheapest in-stock total first. Ties fall back to the all-items
// total, then store name, then ID, so equal inputs always rank identically.
func rank(results []StoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if cmp := a.TotalInStock.Cmp(b.TotalInStock); cmp != 0 {
			return cmp < 0
		}
		if cmp := a.TotalAll.Cmp(b.TotalAll); cmp != 0 {
			return cmp < 0
		}
		if a.StoreName != b.StoreName {
			return strings.ToLower(a.StoreName) < strings.ToLower(b.StoreName)
		}
		return a.StoreID.String() < b.StoreID.String()
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

func (s *service) normalizeStoreIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one store is required")
	}
	if len(ids) > s.maxStores {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many stores").WithDetails(map[string]any{"max": s.maxStores})
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
		}
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate store in request").WithDetails(map[string]any{"store_id": id.String()})
		}
		seen[id] = struct{}{}
	}
	return ids, nil
}

func (s *service) loadOwnedList(ctx context.Context, userID, listID uuid.UUID) (*models.ShoppingList, error) {
	if listID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list id is required")
	}
	list, err := s.lists.FindWithItems(ctx, listID)
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

func (s *service) resolveStores(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Store, error) {
	rows, err := s.stores.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stores")
	}
	byID := make(map[uuid.UUID]models.Store, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found").WithDetails(map[string]any{"store_id": id.String()})
		}
	}
	return byID, nil
}
