package controllers

import (
	"net/http"

	"github.com/basketwise/basketwise-backend/api/responses"
	"github.com/basketwise/basketwise-backend/api/validators"
	"github.com/basketwise/basketwise-backend/internal/budget"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/logger"
)

// BudgetSuggest asks the model to fit a list under its budget. Advisory only.
func BudgetSuggest(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budget service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listID, err := uuidParam(r, "listId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		suggestion, err := svc.Suggest(r.Context(), userID, listID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, suggestion)
	}
}

// BudgetApply swaps the list's items for the accepted suggestion lines.
func BudgetApply(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budget service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listID, err := uuidParam(r, "listId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload budget.ApplyInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Apply(r.Context(), userID, listID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// BudgetAutoList builds a brand-new list straight from a budget and store.
func BudgetAutoList(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budget service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload budget.AutoCreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AutoCreateList(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
