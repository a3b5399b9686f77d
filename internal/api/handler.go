package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"pms/m/domain"
	"pms/m/internal/accounts"
	"pms/m/internal/apperr"
	"pms/m/internal/auth"
	"pms/m/internal/cache"
	"pms/m/internal/companies"
	"pms/m/internal/config"
	"pms/m/internal/inventory"
	"pms/m/internal/reports"
	"pms/m/internal/transactions"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	inventory    *inventory.Service
	accounts     *accounts.Service
	companies    *companies.Service
	transactions *transactions.Service
	reports      *reports.Service
	sessions     *auth.Issuer
	cfg          config.Config
}

// New constructs a Handler and the services behind it. A nil cache disables report caching.
func New(db *sqlx.DB, c cache.Cache, cfg config.Config) *Handler {
	if c == nil {
		c = cache.Noop{}
	}
	return &Handler{
		inventory:    inventory.NewService(db, c),
		accounts:     accounts.NewService(db),
		companies:    companies.NewService(db),
		transactions: transactions.NewService(db, c),
		reports:      reports.NewService(db, c, cfg.CacheTTL),
		sessions:     auth.NewIssuer(cfg.Secret),
		cfg:          cfg,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(h.sessionMiddleware)

	r.Get("/", h.root)
	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login/{role}", h.login)
		r.Post("/logout", h.logout)

		r.Group(func(signedIn chi.Router) {
			signedIn.Use(h.requireRole(domain.RoleAdmin, domain.RolePharmacist))
			signedIn.Get("/medicines", h.listMedicines)
			signedIn.Get("/pharmacists", h.listPharmacists)
			signedIn.Get("/total-pharmacists", h.totalPharmacists)
			signedIn.Get("/total-medicines", h.totalMedicines)
			signedIn.Get("/companies", h.listCompanies)
			signedIn.Get("/total-companies", h.totalCompanies)
			signedIn.Get("/low-stock", h.lowStock)
			signedIn.Post("/check-availability", h.checkAvailability)
			signedIn.Post("/extract-prescription", h.extractPrescription)
			signedIn.Get("/orders", h.orders)
			signedIn.Get("/sales", h.sales)
			signedIn.Get("/purchases", h.purchases)
		})

		r.Group(func(admin chi.Router) {
			admin.Use(h.requireRole(domain.RoleAdmin))
			admin.Post("/add-medicine", h.addMedicine)
			admin.Delete("/delete-medicine", h.deleteMedicine)
			admin.Put("/update-medicine-stock", h.updateMedicineStock)
			admin.Post("/add-admin", h.addAdmin)
			admin.Post("/add-pharmacist", h.addPharmacist)
			admin.Delete("/delete-user", h.deleteUser)
			admin.Get("/users", h.listUsers)
			admin.Post("/add-company", h.addCompany)
			admin.Delete("/delete-company", h.deleteCompany)
			admin.Get("/sales-stats", h.salesStats)
			admin.Get("/invoices", h.invoices)
		})

		r.Group(func(ph chi.Router) {
			ph.Use(h.requireRole(domain.RolePharmacist))
			ph.Post("/purchase", h.purchase)
			ph.Post("/upload-prescription", h.uploadPrescription)
		})
	})

	return r
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Pharmacy Management System backend. Use /api routes for functionality.\n"))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "Server is healthy"})
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondOK(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, statusResponse{Success: true, Message: message})
}

type totalResponse struct {
	Total int64 `json:"total"`
}

// fail maps a service error onto its status. Store errors are logged and
// reported to the client with a generic message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
		}).Error("request failed")
	}
	respondError(w, status, apperr.PublicMessage(err))
}

var errBadBody = errors.New("Invalid request body")

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return errBadBody
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, statusResponse{Success: false, Message: message})
}

// parseSerial reads a serial_no sent either as a JSON number or a numeric string.
func parseSerial(raw json.Number) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw.String()), 10, 64)
	return n, err == nil && n > 0
}
