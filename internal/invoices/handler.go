package invoices

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/edusupply/console-api/internal/platform/httpx"
)

// Handler serves invoice ingest and lookup.
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

// MountRoutes registers invoice endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Ingest)
	r.Get("/{id}", h.Get)
}

type ingestLineRequest struct {
	ProductID int64    `json:"productId" validate:"required,gt=0"`
	Quantity  float64  `json:"quantity" validate:"required,gt=0"`
	Unit      string   `json:"unit" validate:"max=32"`
	UnitPrice *float64 `json:"unitPrice" validate:"omitempty,gte=0"`
	Price     *float64 `json:"price" validate:"omitempty,gte=0"`
}

type ingestRequest struct {
	Reference    string              `json:"reference" validate:"max=64"`
	CustomerID   int64               `json:"customerId" validate:"required,gt=0"`
	CustomerName string              `json:"customerName" validate:"required,max=255"`
	Date         string              `json:"date" validate:"required,datetime=2006-01-02"`
	Lines        []ingestLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err)))
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid date", httpx.ErrValidation))
		return
	}

	ingest := IngestRequest{
		Reference:    req.Reference,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Date:         date,
	}
	for _, line := range req.Lines {
		ingest.Lines = append(ingest.Lines, IngestLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Unit:      line.Unit,
			UnitPrice: line.UnitPrice,
			Price:     line.Price,
		})
	}

	invoice, created, err := h.service.Ingest(r.Context(), ingest)
	if err != nil {
		if errors.Is(err, ErrUnknownProduct) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Unknown Product", err.Error())
			return
		}
		h.serverError(w, "ingest invoice", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, invoice)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, fmt.Errorf("%w: invalid invoice id", httpx.ErrValidation))
		return
	}
	invoice, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.serverError(w, "get invoice", err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *Handler) serverError(w http.ResponseWriter, context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return "invalid field " + fieldErrs[0].Field()
	}
	return "invalid request"
}
