package controllers

import (
	"net/http"

	"github.com/loosihong/RAiD-Backend/api/responses"
	uomsvc "github.com/loosihong/RAiD-Backend/internal/uom"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
)

func UnitOfMeasureSelection(svc uomsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Selection(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
