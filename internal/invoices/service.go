package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edusupply/console-api/internal/catalog/products"
)

// ErrUnknownProduct marks an ingest line referencing a product the catalog
// does not have.
var ErrUnknownProduct = errors.New("unknown product")

// Store is the persistence surface the service needs; the pgx repository
// implements it.
type Store interface {
	Create(ctx context.Context, invoice Invoice) (int64, error)
	Get(ctx context.Context, id int64) (Invoice, error)
	GetByReference(ctx context.Context, reference string) (Invoice, error)
}

// ProductCatalog resolves ingest lines to catalog entries.
type ProductCatalog interface {
	Get(ctx context.Context, id int64) (products.Product, error)
}

// ReportInvalidator drops memoized sales reports after data changes.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// WarmupQueue schedules background report recomputation per category.
type WarmupQueue interface {
	EnqueueReportWarmup(ctx context.Context, categoryID int64) error
}

// IngestLine is one sold position in an ingest request.
type IngestLine struct {
	ProductID int64
	Quantity  float64
	Unit      string
	UnitPrice *float64
	Price     *float64
}

// IngestRequest carries one invoice received from the point of sale.
type IngestRequest struct {
	Reference    string
	CustomerID   int64
	CustomerName string
	Date         time.Time
	Lines        []IngestLine
}

// Service provides business logic for invoice ingest and lookup.
type Service struct {
	logger  *slog.Logger
	store   Store
	catalog ProductCatalog
	reports ReportInvalidator
	queue   WarmupQueue
}

// NewService constructs an invoice service. Reports and queue are optional;
// without them ingest still persists, it just skips cache maintenance.
func NewService(logger *slog.Logger, store Store, catalog ProductCatalog, reports ReportInvalidator, queue WarmupQueue) *Service {
	return &Service{
		logger:  logger,
		store:   store,
		catalog: catalog,
		reports: reports,
		queue:   queue,
	}
}

// Ingest persists one invoice. Replaying a reference that was already stored
// returns the stored invoice with created=false instead of failing, making
// the endpoint safe to retry.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (Invoice, bool, error) {
	if len(req.Lines) == 0 {
		return Invoice{}, false, errors.New("invoice needs at least one line")
	}
	reference := req.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	invoice := Invoice{
		Reference:    reference,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Date:         req.Date,
	}
	categories := make(map[int64]struct{})
	for _, line := range req.Lines {
		product, err := s.catalog.Get(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, products.ErrNotFound) {
				return Invoice{}, false, fmt.Errorf("%w: id %d", ErrUnknownProduct, line.ProductID)
			}
			return Invoice{}, false, fmt.Errorf("resolve product %d: %w", line.ProductID, err)
		}
		unit := line.Unit
		if unit == "" {
			unit = product.Unit
		}
		invoice.Lines = append(invoice.Lines, InvoiceLine{
			ProductID:  product.ID,
			CategoryID: product.CategoryID,
			Quantity:   line.Quantity,
			UnitName:   unit,
			UnitPrice:  line.UnitPrice,
			Price:      line.Price,
		})
		categories[product.CategoryID] = struct{}{}
	}

	id, err := s.store.Create(ctx, invoice)
	if errors.Is(err, ErrAlreadyExists) {
		existing, getErr := s.store.GetByReference(ctx, reference)
		if getErr != nil {
			return Invoice{}, false, fmt.Errorf("load replayed invoice: %w", getErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return Invoice{}, false, fmt.Errorf("create invoice: %w", err)
	}
	invoice.ID = id

	s.afterIngest(ctx, categories)
	return invoice, true, nil
}

// Get returns one invoice with its lines.
func (s *Service) Get(ctx context.Context, id int64) (Invoice, error) {
	if id <= 0 {
		return Invoice{}, errors.New("invalid invoice ID")
	}
	return s.store.Get(ctx, id)
}

// afterIngest performs best-effort cache maintenance: bump the report cache
// version and queue warmup for each touched category. Failures are logged,
// not surfaced, because the invoice itself is already durably stored.
func (s *Service) afterIngest(ctx context.Context, categories map[int64]struct{}) {
	if s.reports != nil {
		if err := s.reports.Invalidate(ctx); err != nil {
			s.logWarn("invalidate report cache", err)
		}
	}
	if s.queue == nil {
		return
	}
	for categoryID := range categories {
		if err := s.queue.EnqueueReportWarmup(ctx, categoryID); err != nil {
			s.logWarn("enqueue report warmup", err)
		}
	}
}

func (s *Service) logWarn(context string, err error) {
	if s.logger != nil {
		s.logger.Warn(context, slog.Any("error", err))
	}
}
