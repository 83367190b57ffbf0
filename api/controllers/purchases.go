package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/loosihong/RAiD-Backend/api/responses"
	"github.com/loosihong/RAiD-Backend/api/validators"
	purchasesvc "github.com/loosihong/RAiD-Backend/internal/purchase"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
)

func PurchaseCreate(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload purchasesvc.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		acks, err := svc.Create(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, acks)
	}
}

type transitionFunc func(ctx context.Context, userID uuid.UUID, input purchasesvc.TransitionInput) ([]purchasesvc.StatusView, error)

func purchaseTransition(logg *logger.Logger, apply transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload purchasesvc.TransitionInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := apply(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func PurchasePay(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return purchaseTransition(logg, svc.Pay)
}

func PurchaseConfirm(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return purchaseTransition(logg, svc.Confirm)
}

func PurchaseSend(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return purchaseTransition(logg, svc.Send)
}

func PurchaseDelivered(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return purchaseTransition(logg, svc.Delivered)
}

func PurchaseReceive(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return purchaseTransition(logg, svc.Receive)
}

func PurchaseActive(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.Active(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func PurchaseHistory(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.History(r.Context(), userID, purchasesvc.HistoryQuery{
			Keyword: validators.ParseQueryString(r, "keyword", ""),
			Offset:  page.Offset,
			Fetch:   page.Fetch,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func StorePurchases(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.StorePurchases(r.Context(), userID, purchasesvc.StoreQuery{
			StatusCode: validators.ParseQueryString(r, "statusCode", ""),
			Offset:     page.Offset,
			Fetch:      page.Fetch,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
