package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/basketwise/basketwise-backend/internal/analytics"
	"github.com/basketwise/basketwise-backend/internal/lists"
	"github.com/basketwise/basketwise-backend/internal/prices"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/metrics"
)

// CandidateSource supplies the bounded price-book snapshot sent to the model.
type CandidateSource interface {
	ListCandidates(ctx context.Context, storeID uuid.UUID, limit int) ([]prices.CandidateRow, error)
}

// ServiceParams groups dependencies for the budget service.
type ServiceParams struct {
	Lists         lists.Service
	Candidates    CandidateSource
	Completer     Completer
	Events        analytics.Recorder
	Metrics       *metrics.CompareMetrics
	Model         string
	MaxCandidates int
}

// Service exposes budget-fit delegation. Suggest never writes; Apply is the
// only path that mutates a list, and it goes through the transactional
// replace, so a failed or malformed suggestion leaves zero rows changed.
type Service interface {
	Suggest(ctx context.Context, userID, listID uuid.UUID) (SuggestionDTO, error)
	Apply(ctx context.Context, userID, listID uuid.UUID, input ApplyInput) (lists.ListDTO, error)
	AutoCreateList(ctx context.Context, userID uuid.UUID, input AutoCreateInput) (AutoCreateDTO, error)
}

type service struct {
	lists         lists.Service
	candidates    CandidateSource
	completer     Completer
	events        analytics.Recorder
	metrics       *metrics.CompareMetrics
	model         string
	maxCandidates int
	now           func() time.Time
}

// NewService builds a budget service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Lists == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list service is required")
	}
	if params.Candidates == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidate source is required")
	}
	if params.Completer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "completer is required")
	}
	maxCandidates := params.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 200
	}
	return &service{
		lists:         params.Lists,
		candidates:    params.Candidates,
		completer:     params.Completer,
		events:        params.Events,
		metrics:       params.Metrics,
		model:         params.Model,
		maxCandidates: maxCandidates,
		now:           time.Now,
	}, nil
}

// Suggest asks the model to fit the list under its budget at its assigned
// store. The result is advisory only.
func (s *service) Suggest(ctx context.Context, userID, listID uuid.UUID) (SuggestionDTO, error) {
	list, err := s.lists.Get(ctx, userID, listID)
	if err != nil {
		return SuggestionDTO{}, err
	}
	if list.Budget == nil || !list.Budget.IsPositive() {
		return SuggestionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "list needs a positive budget")
	}
	if list.AssignedStoreID == nil {
		return SuggestionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "list needs an assigned store")
	}

	desired := make([]desiredLine, 0, len(list.Items))
	for _, item := range list.Items {
		desired = append(desired, desiredLine{GTIN: item.ProductGTIN, Quantity: item.Quantity})
	}

	dto, err := s.suggestFor(ctx, *list.Budget, *list.AssignedStoreID, desired)
	if err != nil {
		return SuggestionDTO{}, err
	}
	dto.ListID = list.ID

	if s.events != nil {
		s.events.Record(ctx, analytics.Event{
			Type:    enums.AnalyticsEventBudgetSuggested,
			UserID:  &userID,
			StoreID: list.AssignedStoreID,
			ListID:  &list.ID,
			Payload: map[string]any{
				"items":         len(dto.Items),
				"within_budget": dto.WithinBudget,
			},
		})
	}
	return dto, nil
}

// Apply replaces the list's items with the accepted suggestion lines. The
// swap is one transaction; nothing partial can land.
func (s *service) Apply(ctx context.Context, userID, listID uuid.UUID, input ApplyInput) (lists.ListDTO, error) {
	if len(input.Items) == 0 {
		return lists.ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	replace := lists.ReplaceItemsInput{Items: make([]lists.SetItemInput, 0, len(input.Items))}
	for _, item := range input.Items {
		replace.Items = append(replace.Items, lists.SetItemInput{
			ProductGTIN: item.GTIN,
			Quantity:    item.Quantity,
		})
	}

	updated, err := s.lists.ReplaceItems(ctx, userID, listID, replace)
	if err != nil {
		return lists.ListDTO{}, err
	}

	if s.events != nil {
		s.events.Record(ctx, analytics.Event{
			Type:    enums.AnalyticsEventSuggestionApplied,
			UserID:  &userID,
			StoreID: updated.AssignedStoreID,
			ListID:  &updated.ID,
			Payload: map[string]any{"items": len(updated.Items)},
		})
	}
	return updated, nil
}

// AutoCreateList builds a fresh basket straight from a budget. The suggestion
// runs before anything is persisted, so a model failure creates no list.
func (s *service) AutoCreateList(ctx context.Context, userID uuid.UUID, input AutoCreateInput) (AutoCreateDTO, error) {
	if !input.Budget.IsPositive() {
		return AutoCreateDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "budget must be positive")
	}
	if input.StoreID == uuid.Nil {
		return AutoCreateDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	suggestion, err := s.suggestFor(ctx, input.Budget, input.StoreID, nil)
	if err != nil {
		return AutoCreateDTO{}, err
	}

	create := lists.CreateListInput{
		Name:            input.Name,
		Budget:          &input.Budget,
		AssignedStoreID: &input.StoreID,
		Items:           make([]lists.SetItemInput, 0, len(suggestion.Items)),
	}
	for _, item := range suggestion.Items {
		create.Items = append(create.Items, lists.SetItemInput{
			ProductGTIN: item.GTIN,
			Quantity:    item.Quantity,
		})
	}

	list, err := s.lists.Create(ctx, userID, create)
	if err != nil {
		return AutoCreateDTO{}, err
	}
	suggestion.ListID = list.ID

	if s.events != nil {
		s.events.Record(ctx, analytics.Event{
			Type:    enums.AnalyticsEventListAutoCreated,
			UserID:  &userID,
			StoreID: &input.StoreID,
			ListID:  &list.ID,
			Payload: map[string]any{"items": len(list.Items)},
		})
	}

	return AutoCreateDTO{List: list, Suggestion: suggestion}, nil
}

func (s *service) suggestFor(ctx context.Context, budget decimal.Decimal, storeID uuid.UUID, desired []desiredLine) (SuggestionDTO, error) {
	candidates, err := s.candidates.ListCandidates(ctx, storeID, s.maxCandidates)
	if err != nil {
		return SuggestionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price book")
	}
	if len(candidates) == 0 {
		return SuggestionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store has no priced products")
	}

	userPrompt := buildUserPrompt(budget, desired, candidates)

	start := s.now()
	raw, err := s.completer.Complete(ctx, systemPrompt, userPrompt)
	s.metrics.ObserveSuggestion(s.model, s.now().Sub(start))
	if err != nil {
		s.metrics.IncSuggestion("error")
		return SuggestionDTO{}, err
	}

	suggestion, err := parseSuggestion(raw)
	if err != nil {
		s.metrics.IncSuggestion("parse_failure")
		return SuggestionDTO{}, err
	}

	byGTIN := make(map[string]prices.CandidateRow, len(candidates))
	for _, c := range candidates {
		byGTIN[c.ProductGTIN] = c
	}

	totalAll := decimal.Zero
	totalInStock := decimal.Zero
	seen := make(map[string]struct{}, len(suggestion.Items))
	for _, item := range suggestion.Items {
		candidate, ok := byGTIN[item.GTIN]
		if !ok {
			s.metrics.IncSuggestion("invalid_gtin")
			return SuggestionDTO{}, pkgerrors.New(pkgerrors.CodeDependency, "model suggested a gtin outside the price book").WithDetails(map[string]any{"gtin": item.GTIN})
		}
		if _, dup := seen[item.GTIN]; dup {
			s.metrics.IncSuggestion("duplicate_gtin")
			return SuggestionDTO{}, pkgerrors.New(pkgerrors.CodeDependency, "model suggested a duplicate gtin").WithDetails(map[string]any{"gtin": item.GTIN})
		}
		seen[item.GTIN] = struct{}{}

		lineTotal := candidate.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totalAll = totalAll.Add(lineTotal)
		if candidate.InStock {
			totalInStock = totalInStock.Add(lineTotal)
		}
	}

	s.metrics.IncSuggestion("ok")
	return SuggestionDTO{
		StoreID:            storeID,
		Budget:             budget,
		Items:              suggestion.Items,
		Reasoning:          suggestion.Reasoning,
		ApproxTotalAll:     totalAll,
		ApproxTotalInStock: totalInStock,
		WithinBudget:       totalInStock.LessThanOrEqual(budget),
	}, nil
}
