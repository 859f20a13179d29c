package categories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/edusupply/console-api/internal/catalog/shared"
	"github.com/edusupply/console-api/internal/platform/httpx"
	"github.com/edusupply/console-api/internal/salesreport"
)

// ProductLister exposes the product listing the detail payload embeds.
type ProductLister interface {
	ListByCategory(ctx context.Context, categoryID int64) ([]CategoryProduct, error)
}

// CategoryProduct is the product projection embedded in the detail payload.
type CategoryProduct struct {
	ID    int64   `json:"id"`
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
}

// LineItemSource supplies the raw invoice line items for the detail payload.
type LineItemSource interface {
	CategoryLineItems(ctx context.Context, categoryID int64) ([]salesreport.LineItem, error)
}

// Handler serves category CRUD and the category detail payload.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	products ProductLister
	items    LineItemSource
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, products ProductLister, items LineItemSource) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		products: products,
		items:    items,
		validate: validator.New(),
	}
}

// MountRoutes registers category endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/detail", h.Detail)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type categoryRequest struct {
	Code string `json:"code" validate:"required,max=32"`
	Name string `json:"name" validate:"required,max=255"`
}

type listResponse struct {
	Items []Category `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// detailResponse is the payload shape the console's category detail view
// consumes: the category, its catalog entries, and the raw invoice items the
// sales rollup is computed from.
type detailResponse struct {
	Category     Category               `json:"category"`
	Products     []CategoryProduct      `json:"products"`
	InvoiceItems []salesreport.LineItem `json:"invoiceItems"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := parseListFilters(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.serverError(w, "list categories", err)
		return
	}
	if items == nil {
		items = []Category{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Total: total, Page: filters.Page, Limit: filters.Limit})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, "get category", err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, "get category", err)
		return
	}
	products, err := h.products.ListByCategory(r.Context(), id)
	if err != nil {
		h.serverError(w, "list category products", err)
		return
	}
	items, err := h.items.CategoryLineItems(r.Context(), id)
	if err != nil {
		h.serverError(w, "load category invoice items", err)
		return
	}
	if products == nil {
		products = []CategoryProduct{}
	}
	if items == nil {
		items = []salesreport.LineItem{}
	}
	httpx.JSON(w, http.StatusOK, detailResponse{Category: category, Products: products, InvoiceItems: items})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	category, err := h.service.Create(r.Context(), Category{Code: req.Code, Name: req.Name})
	if err != nil {
		h.respondDomainError(w, "create category", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, err := h.decodeRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Update(r.Context(), id, Category{Code: req.Code, Name: req.Name}); err != nil {
		h.respondDomainError(w, "update category", err)
		return
	}
	httpx.JSON(w, http.StatusOK, Category{ID: id, Code: req.Code, Name: req.Name})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondDomainError(w, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeRequest(r *http.Request) (categoryRequest, error) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return categoryRequest{}, fmt.Errorf("%w: malformed body", httpx.ErrValidation)
	}
	if err := h.validate.Struct(req); err != nil {
		return categoryRequest{}, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err))
	}
	return req, nil
}

func (h *Handler) respondDomainError(w http.ResponseWriter, context string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.serverError(w, context, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid category id", httpx.ErrValidation)
	}
	return id, nil
}

func parseListFilters(r *http.Request) shared.ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = shared.DefaultPage
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = shared.DefaultLimit
	}
	return shared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return "invalid field " + fieldErrs[0].Field()
	}
	return "invalid request"
}
