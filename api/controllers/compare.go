package controllers

import (
	"net/http"

	"github.com/basketwise/basketwise-backend/api/responses"
	"github.com/basketwise/basketwise-backend/api/validators"
	"github.com/basketwise/basketwise-backend/internal/compare"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/logger"
)

// CompareRun prices an owned list across up to five stores and ranks them.
func CompareRun(svc compare.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compare service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload compare.CompareInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Compare(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
