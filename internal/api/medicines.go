package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"pms/m/internal/inventory"
)

// Inventory handlers

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := inventory.Filter{Symptom: q.Get("symptom"), Brand: q.Get("brand")}
	if v := strings.TrimSpace(q.Get("price")); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "price must be a number")
			return
		}
		f.MaxPrice = &price
	}
	if v := strings.TrimSpace(q.Get("stock")); v != "" {
		stock, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "stock must be a whole number")
			return
		}
		f.MaxStock = &stock
	}

	medicines, err := h.inventory.List(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var req inventory.NewMedicine
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.inventory.Add(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	if res.Merged {
		respondOK(w, "Medicine stock updated successfully")
		return
	}
	respondOK(w, "Medicine added successfully")
}

type serialRequest struct {
	SerialNo json.Number `json:"serial_no"`
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	var req serialRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	serial, ok := parseSerial(req.SerialNo)
	if !ok {
		respondError(w, http.StatusBadRequest, "serial_no is required")
		return
	}
	if err := h.inventory.Delete(r.Context(), serial); err != nil {
		fail(w, r, err)
		return
	}
	respondOK(w, "Medicine deleted successfully")
}

func (h *Handler) updateMedicineStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SerialNo json.Number `json:"serial_no"`
		Stock    json.Number `json:"stock"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	serial, ok := parseSerial(req.SerialNo)
	if !ok {
		respondError(w, http.StatusBadRequest, "serial_no is required")
		return
	}
	if err := h.inventory.UpdateStock(r.Context(), serial, req.Stock); err != nil {
		fail(w, r, err)
		return
	}
	respondOK(w, "Stock updated successfully")
}

func (h *Handler) totalMedicines(w http.ResponseWriter, r *http.Request) {
	n, err := h.inventory.Count(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totalResponse{Total: n})
}

// Company handlers

func (h *Handler) addCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.companies.Add(r.Context(), req.Name); err != nil {
		fail(w, r, err)
		return
	}
	respondOK(w, "Company added successfully")
}

func (h *Handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	var req serialRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	serial, ok := parseSerial(req.SerialNo)
	if !ok {
		respondError(w, http.StatusBadRequest, "serial_no is required")
		return
	}
	if err := h.companies.Delete(r.Context(), serial); err != nil {
		fail(w, r, err)
		return
	}
	respondOK(w, "Company deleted successfully")
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	list, err := h.companies.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) totalCompanies(w http.ResponseWriter, r *http.Request) {
	n, err := h.companies.Count(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totalResponse{Total: n})
}
