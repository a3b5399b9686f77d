package api

import (
	"net/http"

	"pms/m/internal/prescription"
	"pms/m/internal/transactions"
)

// Transaction handlers

func (h *Handler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Medicines []transactions.Line `json:"medicines"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.transactions.CheckAvailability(r.Context(), req.Medicines)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

type invoiceResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Invoice transactions.Invoice `json:"invoice"`
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	var req transactions.PurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.actingAs(w, r, req.PharmacistUsername) {
		return
	}
	inv, err := h.transactions.Purchase(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, invoiceResponse{Success: true, Message: "Purchase successful", Invoice: inv})
}

type billResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Bill    transactions.Bill `json:"bill"`
}

func (h *Handler) uploadPrescription(w http.ResponseWriter, r *http.Request) {
	var req transactions.SaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.actingAs(w, r, req.PharmacistUsername) {
		return
	}
	bill, err := h.transactions.Sell(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, billResponse{Success: true, Message: "Prescription uploaded and bill generated", Bill: bill})
}

func (h *Handler) extractPrescription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string][]prescription.Line{"medicines": prescription.Extract(req.Text)})
}
