package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/logger"
)

// Event is one recordable product-usage fact.
type Event struct {
	Type    enums.AnalyticsEventType
	UserID  *uuid.UUID
	StoreID *uuid.UUID
	ListID  *uuid.UUID
	Payload map[string]any
}

// StoreActivityDTO is one row of the admin store-activity report.
type StoreActivityDTO struct {
	StoreID string `json:"store_id"`
	Events  int64  `json:"events"`
}

// SummaryDTO is the admin reporting rollup.
type SummaryDTO struct {
	Since     time.Time          `json:"since"`
	ByType    map[string]int64   `json:"by_type"`
	TopStores []StoreActivityDTO `json:"top_stores"`
}

// Recorder is the write-side surface other services depend on.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// ServiceParams groups dependencies for the analytics service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

// Service exposes event recording and admin reporting.
type Service interface {
	Recorder
	Summary(ctx context.Context, since time.Time, topN int) (SummaryDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds an analytics service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "analytics repo is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// Record persists one event. Failures are logged, never surfaced: reporting
// must not break the shopper flow that produced the event.
func (s *service) Record(ctx context.Context, event Event) {
	if !event.Type.IsValid() {
		return
	}
	row := &models.AnalyticsEvent{
		EventType: event.Type,
		UserID:    event.UserID,
		StoreID:   event.StoreID,
		ListID:    event.ListID,
		Payload:   event.Payload,
	}
	if err := s.repo.Insert(ctx, row); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "event_type", event.Type.String())
		s.logg.Warn(logCtx, "analytics.record.failed")
	}
}

// Summary builds the admin rollup for the window starting at since.
func (s *service) Summary(ctx context.Context, since time.Time, topN int) (SummaryDTO, error) {
	if topN <= 0 {
		topN = 10
	}

	byType, err := s.repo.CountsByType(ctx, since)
	if err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count events")
	}
	topStores, err := s.repo.TopStores(ctx, since, topN)
	if err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank stores")
	}

	counts := make(map[string]int64, len(byType))
	for eventType, count := range byType {
		counts[eventType.String()] = count
	}

	return SummaryDTO{
		Since:     since,
		ByType:    counts,
		TopStores: topStores,
	}, nil
}
