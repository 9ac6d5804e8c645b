package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carepoint/scheduling-stock-service/internal/inventory"
	"github.com/carepoint/scheduling-stock-service/internal/validation"
)

func addMedicineHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddMedicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		in, err := validation.ParseMedicineInput(req.Name, req.Category, req.Price, req.Quantity)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		m, err := svc.AddMedicine(r.Context(), in.Name, in.Category, in.Price, in.Quantity)
		if err != nil {
			handleInventoryError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, medicineResponse(m))
	}
}

func searchMedicinesHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("q")

		medicines, err := svc.Search(r.Context(), term)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]MedicineResponse, 0, len(medicines))
		for i := range medicines {
			resp = append(resp, medicineResponse(&medicines[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func setStockHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_medicine_id", "id must be a valid UUID")
			return
		}

		var req SetStockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		m, err := svc.SetStock(r.Context(), id, req.Quantity)
		if err != nil {
			handleInventoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, medicineResponse(m))
	}
}

func recordSaleHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_medicine_id", "id must be a valid UUID")
			return
		}

		var req RecordSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		outcome, err := svc.RecordSale(r.Context(), id, req.Quantity)
		if err != nil {
			handleInventoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SaleOutcomeResponse{
			MedicineID:   outcome.MedicineID,
			QuantitySold: outcome.QuantitySold,
			Remaining:    outcome.Remaining,
			UnitPrice:    outcome.UnitPrice,
			Total:        outcome.Total,
		})
	}
}

func handleInventoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrMedicineNotFound):
		writeError(w, http.StatusNotFound, "medicine_not_found", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, inventory.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, inventory.ErrInvalidPrice),
		errors.Is(err, inventory.ErrBlankName),
		errors.Is(err, inventory.ErrBlankCategory):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func medicineResponse(m *inventory.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:        m.ID,
		Name:      m.Name,
		Category:  m.Category,
		UnitPrice: m.UnitPrice,
		Quantity:  m.Quantity,
	}
}
