package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusupply/console-api/internal/catalog/products"
)

type mockStore struct {
	invoices    map[int64]Invoice
	byReference map[string]Invoice
	nextID      int64
	createErr   error
}

func newMockStore() *mockStore {
	return &mockStore{
		invoices:    make(map[int64]Invoice),
		byReference: make(map[string]Invoice),
		nextID:      1,
	}
}

func (m *mockStore) Create(ctx context.Context, invoice Invoice) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	if _, ok := m.byReference[invoice.Reference]; ok {
		return 0, ErrAlreadyExists
	}
	invoice.ID = m.nextID
	m.nextID++
	m.invoices[invoice.ID] = invoice
	m.byReference[invoice.Reference] = invoice
	return invoice.ID, nil
}

func (m *mockStore) Get(ctx context.Context, id int64) (Invoice, error) {
	invoice, ok := m.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return invoice, nil
}

func (m *mockStore) GetByReference(ctx context.Context, reference string) (Invoice, error) {
	invoice, ok := m.byReference[reference]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return invoice, nil
}

type mockCatalog struct {
	products map[int64]products.Product
}

func (m *mockCatalog) Get(ctx context.Context, id int64) (products.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return products.Product{}, products.ErrNotFound
	}
	return product, nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) Invalidate(ctx context.Context) error {
	m.calls++
	return nil
}

type mockQueue struct {
	categories []int64
}

func (m *mockQueue) EnqueueReportWarmup(ctx context.Context, categoryID int64) error {
	m.categories = append(m.categories, categoryID)
	return nil
}

func fixtureCatalog() *mockCatalog {
	return &mockCatalog{products: map[int64]products.Product{
		1: {ID: 1, CategoryID: 10, Code: "VKN-96", Name: "Vở kẻ ngang", Unit: "hộp", Price: 9000},
		2: {ID: 2, CategoryID: 20, Code: "BBX-01", Name: "Bút bi xanh", Unit: "cây", Price: 4000},
	}}
}

func ingestFixture() IngestRequest {
	price := 8500.0
	return IngestRequest{
		Reference:    "POS-2024-0001",
		CustomerID:   7,
		CustomerName: "Trường An Phú",
		Date:         time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Lines: []IngestLine{
			{ProductID: 1, Quantity: 3, UnitPrice: &price},
			{ProductID: 2, Quantity: 10},
		},
	}
}

func TestIngestPersistsAndMaintainsCaches(t *testing.T) {
	store := newMockStore()
	invalidator := &mockInvalidator{}
	queue := &mockQueue{}
	svc := NewService(nil, store, fixtureCatalog(), invalidator, queue)

	invoice, created, err := svc.Ingest(context.Background(), ingestFixture())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), invoice.ID)
	require.Len(t, invoice.Lines, 2)

	// Category and default unit are denormalized from the catalog.
	assert.Equal(t, int64(10), invoice.Lines[0].CategoryID)
	assert.Equal(t, "hộp", invoice.Lines[0].UnitName)
	assert.Equal(t, "cây", invoice.Lines[1].UnitName)
	require.NotNil(t, invoice.Lines[0].UnitPrice)
	assert.Equal(t, 8500.0, *invoice.Lines[0].UnitPrice)
	assert.Nil(t, invoice.Lines[1].UnitPrice)

	assert.Equal(t, 1, invalidator.calls)
	assert.ElementsMatch(t, []int64{10, 20}, queue.categories)
}

func TestIngestReplayReturnsStoredInvoice(t *testing.T) {
	store := newMockStore()
	invalidator := &mockInvalidator{}
	svc := NewService(nil, store, fixtureCatalog(), invalidator, nil)

	first, created, err := svc.Ingest(context.Background(), ingestFixture())
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Ingest(context.Background(), ingestFixture())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, invalidator.calls, "replay must not invalidate caches again")
}

func TestIngestGeneratesReferenceWhenAbsent(t *testing.T) {
	store := newMockStore()
	svc := NewService(nil, store, fixtureCatalog(), nil, nil)

	req := ingestFixture()
	req.Reference = ""
	invoice, created, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, invoice.Reference)
}

func TestIngestRejectsUnknownProduct(t *testing.T) {
	store := newMockStore()
	svc := NewService(nil, store, fixtureCatalog(), nil, nil)

	req := ingestFixture()
	req.Lines = append(req.Lines, IngestLine{ProductID: 99, Quantity: 1})
	_, _, err := svc.Ingest(context.Background(), req)
	require.ErrorIs(t, err, ErrUnknownProduct)
	assert.Empty(t, store.invoices, "nothing may be stored on rejection")
}

func TestIngestRequiresLines(t *testing.T) {
	svc := NewService(nil, newMockStore(), fixtureCatalog(), nil, nil)
	req := ingestFixture()
	req.Lines = nil
	_, _, err := svc.Ingest(context.Background(), req)
	require.Error(t, err)
}
