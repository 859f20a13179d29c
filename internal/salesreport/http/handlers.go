package salesreporthttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/edusupply/console-api/internal/catalog/categories"
	"github.com/edusupply/console-api/internal/platform/httpx"
	"github.com/edusupply/console-api/internal/salesreport"
	"github.com/edusupply/console-api/internal/salesreport/export"
)

const requestTimeout = 5 * time.Second

// ReportService exposes the rollup computation used by the handler.
type ReportService interface {
	CategoryReport(ctx context.Context, filter salesreport.ReportFilter) (salesreport.Report, error)
}

// CategoryDirectory resolves category metadata for the report envelope.
type CategoryDirectory interface {
	Get(ctx context.Context, id int64) (categories.Category, error)
}

// Handler serves the category sales rollup as JSON and CSV.
type Handler struct {
	logger     *slog.Logger
	service    ReportService
	categories CategoryDirectory
	csvPool    sync.Pool
}

// NewHandler constructs the sales report HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService, directory CategoryDirectory) *Handler {
	h := &Handler{
		logger:     logger,
		service:    service,
		categories: directory,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// reportEnvelope is the JSON document the console renders from.
type reportEnvelope struct {
	Category categories.Category `json:"category"`
	DateFrom string              `json:"dateFrom,omitempty"`
	DateTo   string              `json:"dateTo,omitempty"`
	salesreport.Report
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	envelope, err := h.loadEnvelope(ctx, filter)
	if err != nil {
		h.respondLoadError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, envelope)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	envelope, err := h.loadEnvelope(ctx, filter)
	if err != nil {
		h.respondLoadError(w, err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteSummaryCSV(buf, envelope.Summary); err != nil {
		h.handleServerError(w, "write summary csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteProductsCSV(buf, envelope.Products); err != nil {
		h.handleServerError(w, "write products csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteCustomersCSV(buf, envelope.Customers); err != nil {
		h.handleServerError(w, "write customers csv", err)
		return
	}

	filename := fmt.Sprintf("category-%d-sales.csv", filter.CategoryID)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

// loadEnvelope resolves category metadata and the rollup concurrently; the
// category lookup doubles as the existence check.
func (h *Handler) loadEnvelope(ctx context.Context, filter salesreport.ReportFilter) (reportEnvelope, error) {
	var envelope reportEnvelope
	envelope.DateFrom = formatDate(filter.From)
	envelope.DateTo = formatDate(filter.To)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		category, err := h.categories.Get(ctx, filter.CategoryID)
		if err != nil {
			return err
		}
		envelope.Category = category
		return nil
	})
	g.Go(func() error {
		report, err := h.service.CategoryReport(ctx, filter)
		if err != nil {
			return err
		}
		envelope.Report = report
		return nil
	})
	if err := g.Wait(); err != nil {
		return reportEnvelope{}, err
	}
	return envelope, nil
}

func (h *Handler) parseFilter(r *http.Request) (salesreport.ReportFilter, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return salesreport.ReportFilter{}, fmt.Errorf("%w: invalid category id", httpx.ErrValidation)
	}
	from, err := parseDateParam(r, "date_from")
	if err != nil {
		return salesreport.ReportFilter{}, err
	}
	to, err := parseDateParam(r, "date_to")
	if err != nil {
		return salesreport.ReportFilter{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return salesreport.ReportFilter{}, fmt.Errorf("%w: date_to before date_from", httpx.ErrValidation)
	}
	return salesreport.ReportFilter{CategoryID: id, From: from, To: to}, nil
}

// parseDateParam reads a plain-date query parameter; empty means unset. The
// date pickers on the console send no time component.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	ts, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s", httpx.ErrValidation, name)
	}
	return ts, nil
}

func (h *Handler) respondLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, categories.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "category not found")
		return
	}
	h.handleServerError(w, "load report", err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
