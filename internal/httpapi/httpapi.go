package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"piecesitos/backend/internal/domain"
	"piecesitos/backend/internal/pricing"
	"piecesitos/backend/internal/service"
	"piecesitos/backend/internal/store"
	"piecesitos/backend/internal/upload"
)

const maxMultipartMemory = 10 << 20

type API struct {
	service       *service.Service
	uploads       *upload.Store
	allowedOrigin string
}

func New(svc *service.Service, uploads *upload.Store, allowedOrigin string) *API {
	return &API{
		service:       svc,
		uploads:       uploads,
		allowedOrigin: allowedOrigin,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{a.allowedOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(requestLogger)

	r.Get("/healthz", a.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", a.handleListProducts)
			r.Post("/", a.handleCreateProduct)
			r.Put("/{id}", a.handleUpdateProduct)
			r.Delete("/{id}", a.handleDeleteProduct)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", a.handleListInventory)
			r.Post("/", a.handleCreateInventoryItem)
			r.Put("/{id}", a.handleUpdateInventoryItem)
			r.Delete("/{id}", a.handleDeleteInventoryItem)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", a.handleListSales)
			r.Post("/", a.handleRecordSale)
			r.Get("/summary", a.handleSummary)
			r.Get("/trend", a.handleTrend)
			r.Delete("/{id}", a.handleDeleteSale)
		})
	})

	// Uploaded images are immutable blobs served from disk.
	fileServer := http.StripPrefix(upload.PublicPrefix, http.FileServer(http.Dir(a.uploads.Dir())))
	r.Get(upload.PublicPrefix+"*", fileServer.ServeHTTP)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(startedAt))
	})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	combos, err := a.service.ListCombos(r.Context())
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, combos)
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ComboRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	combo, err := a.service.CreateCombo(r.Context(), req)
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, combo)
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ComboRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	combo, err := a.service.UpdateCombo(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "data": combo})
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteCombo(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := a.service.ListInventory(r.Context())
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) handleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	req, err := a.inventoryRequestFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := a.service.CreateInventoryItem(r.Context(), req)
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) handleUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	req, err := a.inventoryRequestFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := a.service.UpdateInventoryItem(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "image_url": item.ImageURL})
}

func (a *API) handleDeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteInventoryItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// inventoryRequestFromForm reads the multipart payload. Numeric fields are
// free-form strings and coerce to zero when absent or malformed. A fresh
// image upload wins over the resent image_url field; with neither the item
// ends up imageless, per full-replace semantics.
func (a *API) inventoryRequestFromForm(r *http.Request) (domain.InventoryItemRequest, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return domain.InventoryItemRequest{}, err
	}

	req := domain.InventoryItemRequest{
		ProductName: r.FormValue("product_name"),
		Category:    r.FormValue("category"),
		Quantity:    pricing.ParseQuantity(r.FormValue("quantity")),
		CostPrice:   pricing.ParseAmount(r.FormValue("cost_price")),
		SalePrice:   pricing.ParseAmount(r.FormValue("sale_price")),
		ImageURL:    r.FormValue("image_url"),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil
		}
		return domain.InventoryItemRequest{}, err
	}
	defer file.Close()

	publicPath, err := a.uploads.Save(file, header.Filename)
	if err != nil {
		return domain.InventoryItemRequest{}, err
	}
	req.ImageURL = publicPath

	return req, nil
}

func (a *API) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := a.service.ListSales(r.Context())
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

func (a *API) handleRecordSale(w http.ResponseWriter, r *http.Request) {
	var req domain.SaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sale, err := a.service.RecordSale(r.Context(), req)
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (a *API) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.service.Summary(r.Context())
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *API) handleTrend(w http.ResponseWriter, r *http.Request) {
	points, err := a.service.Trend(r.Context())
	if err != nil {
		writeError(w, statusForErr(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

func statusForErr(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeError(w http.ResponseWriter, status int, err error) {
	// 5xx bodies carry a generic message so store internals never leak to the
	// operator; 4xx messages are user-facing.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
