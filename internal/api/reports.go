package api

import "net/http"

// Report handlers

func (h *Handler) salesStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.SalesStats(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) orders(w http.ResponseWriter, r *http.Request) {
	out, err := h.reports.Orders(r.Context(), r.URL.Query().Get("pharmacist_username"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	out, err := h.reports.Sales(r.Context(), r.URL.Query().Get("pharmacist_username"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) purchases(w http.ResponseWriter, r *http.Request) {
	out, err := h.reports.Purchases(r.Context(), r.URL.Query().Get("pharmacist_username"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) invoices(w http.ResponseWriter, r *http.Request) {
	out, err := h.reports.Invoices(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	out, err := h.reports.LowStock(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
