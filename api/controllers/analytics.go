package controllers

import (
	"net/http"
	"time"

	"github.com/basketwise/basketwise-backend/api/responses"
	"github.com/basketwise/basketwise-backend/api/validators"
	"github.com/basketwise/basketwise-backend/internal/analytics"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/logger"
)

// AdminAnalyticsSummary rolls up usage for the last N days.
func AdminAnalyticsSummary(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		topN, err := validators.ParseQueryInt(r, "top", 10, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		since := time.Now().UTC().AddDate(0, 0, -days)

		summary, err := svc.Summary(r.Context(), since, topN)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
