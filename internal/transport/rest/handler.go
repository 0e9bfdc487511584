// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	producterrors "github.com/artztall/product_service/internal/errors"
	"github.com/artztall/product_service/internal/service"
	"github.com/artztall/product_service/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Default paging used when the caller omits the page/size query parameters.
const (
	defaultPage = 0
	defaultSize = 10
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get("/artist/{artistId}", h.FindByArtist)
		r.Get("/category/{category}", h.FindByCategory)
		r.Get("/price-range", h.FindByPriceRange)
		r.Get("/tag/{tag}", h.FindByTag)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
			r.Patch("/availability", h.SetAvailability)
			r.Put("/reserve", h.Reserve)
			r.Put("/release", h.Release)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// Create handles the creation of a new product for the artist named in the X-Artist-Id header.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	artistID, ok := web.GetArtistID(w, r, mLogger)
	if !ok {
		return
	}
	req, ok := h.decodeRequest(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "artist_id", artistID)

	created, err := h.service.Create(r.Context(), *req, artistID)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update replaces every editable field of an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	req, ok := h.decodeRequest(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)

	updated, err := h.service.Update(r.Context(), id, *req)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID. Unknown IDs succeed with 204.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindAll retrieves one page of products; page and size default to 0 and 10.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, ok := web.ParseValidateGteDefault(r, w, mLogger, "page", 0, defaultPage)
	if !ok {
		return
	}
	size, ok := web.ParseValidateGtDefault(r, w, mLogger, "size", 0, defaultSize)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to find all products", "page", page, "size", size)
	list, err := h.service.FindAll(r.Context(), page, size)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list.Content))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByArtist retrieves all products owned by the artist in the path.
func (h *Handler) FindByArtist(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	artistID := r.PathValue("artistId")
	mLogger.DebugContext(r.Context(), "Received request to find products by artist", "artist_id", artistID)
	list, err := h.service.FindByArtistID(r.Context(), artistID)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving products by artist", "artist_id", artistID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByCategory retrieves all products in the category named in the path.
func (h *Handler) FindByCategory(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	category := r.PathValue("category")
	mLogger.DebugContext(r.Context(), "Received request to find products by category", "category", category)
	list, err := h.service.FindByCategory(r.Context(), category)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving products by category", "category", category, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByPriceRange retrieves all products with minPrice <= price <= maxPrice.
func (h *Handler) FindByPriceRange(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	minPrice, ok := web.ParseFloat(r, w, mLogger, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := web.ParseFloat(r, w, mLogger, "maxPrice")
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to find products by price range", "min", minPrice, "max", maxPrice)
	list, err := h.service.FindByPriceRange(r.Context(), minPrice, maxPrice)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving products by price range", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByTag retrieves all products carrying the tag named in the path.
func (h *Handler) FindByTag(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	tag := r.PathValue("tag")
	mLogger.DebugContext(r.Context(), "Received request to find products by tag", "tag", tag)
	list, err := h.service.FindByTag(r.Context(), tag)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving products by tag", "tag", tag, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// SetAvailability sets the availability flag unconditionally.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto service.AvailabilityUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product availability", "ID", id, "available", dto.Available)

	updated, err := h.service.SetAvailability(r.Context(), id, dto.Available)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for availability update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product availability", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update availability of product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product availability updated", "ID", updated.ID, "available", updated.IsAvailable)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// Reserve transitions an available product to reserved.
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to reserve product", "ID", id)

	reserved, err := h.service.Reserve(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, producterrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Product not found for reservation", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
		case errors.Is(err, producterrors.ErrProductNotAvailable):
			mLogger.WarnContext(r.Context(), "Product not available for reservation", "ID", id)
			web.RespondError(w, mLogger, http.StatusConflict, fmt.Sprintf("Product with ID %s is not available for purchase", id))
		default:
			mLogger.ErrorContext(r.Context(), "Error reserving product", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to reserve product with ID %s", id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Product reserved successfully", "ID", reserved.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, reserved)
}

// Release transitions a product to available; releasing an available product succeeds.
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to release product", "ID", id)

	released, err := h.service.Release(r.Context(), id)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for release", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error releasing product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to release product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product released successfully", "ID", released.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, released)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeRequest decodes and validates a product request body.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (*service.ProductRequestDto, bool) {
	var req service.ProductRequestDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return nil, false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return &req, true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
