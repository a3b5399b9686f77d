package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"pms/m/internal/accounts"
	"pms/m/internal/auth"
)

// Account handlers

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	role := strings.ToLower(chi.URLParam(r, "role"))

	user, err := h.accounts.Login(r.Context(), role, req.Username, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	token, err := h.sessions.Issue(auth.Session{Username: user.Username, Role: user.Role})
	if err != nil {
		logrus.WithError(err).Error("issue session token")
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		Message:  fmt.Sprintf("%s login successful", user.Role),
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	})
}

// logout only acknowledges; tokens are stateless and dropped by the client.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "Logged out")
}

func (h *Handler) addAdmin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.AddAdmin(r.Context(), req.Username, req.Password); err != nil {
		fail(w, r, err)
		return
	}
	respondOK(w, "Admin added successfully")
}

func (h *Handler) addPharmacist(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.AddPharmacist(r.Context(), req.Username, req.Password); err != nil {
		fail(w, r, err)
		return
	}
	respondOK(w, "Pharmacist added successfully")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.accounts.DeleteUser(r.Context(), req.Username); err != nil {
		fail(w, r, err)
		return
	}
	respondOK(w, fmt.Sprintf("User %s deleted", req.Username))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListByRole(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) listPharmacists(w http.ResponseWriter, r *http.Request) {
	list, err := h.accounts.ListPharmacists(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) totalPharmacists(w http.ResponseWriter, r *http.Request) {
	n, err := h.accounts.CountPharmacists(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totalResponse{Total: n})
}
