package products

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/edusupply/console-api/internal/catalog/shared"
	"github.com/edusupply/console-api/internal/platform/httpx"
)

// Handler serves product CRUD for the console's product screens.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers product endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type productRequest struct {
	CategoryID int64   `json:"categoryId" validate:"required,gt=0"`
	Code       string  `json:"code" validate:"required,max=32"`
	Name       string  `json:"name" validate:"required,max=255"`
	Unit       string  `json:"unit" validate:"max=32"`
	Price      float64 `json:"price" validate:"gte=0"`
	IsActive   *bool   `json:"isActive"`
}

type listResponse struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := parseListFilters(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.serverError(w, "list products", err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Total: total, Page: filters.Page, Limit: filters.Limit})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Create(r.Context(), req.toProduct())
	if err != nil {
		h.respondDomainError(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
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
	product := req.toProduct()
	if err := h.service.Update(r.Context(), id, product); err != nil {
		h.respondDomainError(w, "update product", err)
		return
	}
	product.ID = id
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondDomainError(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req productRequest) toProduct() Product {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return Product{
		CategoryID: req.CategoryID,
		Code:       req.Code,
		Name:       req.Name,
		Unit:       req.Unit,
		Price:      req.Price,
		IsActive:   active,
	}
}

func (h *Handler) decodeRequest(r *http.Request) (productRequest, error) {
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return productRequest{}, fmt.Errorf("%w: malformed body", httpx.ErrValidation)
	}
	if err := h.validate.Struct(req); err != nil {
		return productRequest{}, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err))
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
		return 0, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return id, nil
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return "invalid field " + fieldErrs[0].Field()
	}
	return "invalid request"
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
	filters := shared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.CategoryID = &id
		}
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		isActive := raw == "true"
		filters.IsActive = &isActive
	}
	return filters
}
