package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/edusupply/console-api/internal/catalog/shared"
	"github.com/edusupply/console-api/internal/salesreport"
)

type fakeRepo struct {
	byID   map[int64]Category
	nextID int64
}

func newFakeRepo(seed ...Category) *fakeRepo {
	repo := &fakeRepo{byID: map[int64]Category{}, nextID: 1}
	for _, c := range seed {
		repo.byID[c.ID] = c
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
	}
	return repo
}

func (f *fakeRepo) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	var out []Category
	for _, c := range f.byID {
		if filters.Search != "" && !strings.Contains(c.Name, filters.Search) {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) Create(ctx context.Context, category Category) (Category, error) {
	for _, existing := range f.byID {
		if existing.Code == category.Code {
			return Category{}, ErrAlreadyExists
		}
	}
	category.ID = f.nextID
	f.nextID++
	f.byID[category.ID] = category
	return category, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, category Category) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	category.ID = id
	f.byID[id] = category
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeProducts struct {
	products []CategoryProduct
}

func (f *fakeProducts) ListByCategory(ctx context.Context, categoryID int64) ([]CategoryProduct, error) {
	return f.products, nil
}

type fakeItems struct {
	items []salesreport.LineItem
}

func (f *fakeItems) CategoryLineItems(ctx context.Context, categoryID int64) ([]salesreport.LineItem, error) {
	return f.items, nil
}

func newTestRouter(repo Repository, products ProductLister, items LineItemSource) http.Handler {
	h := NewHandler(nil, NewService(repo), products, items)
	r := chi.NewRouter()
	r.Route("/categories", h.MountRoutes)
	return r
}

func TestCreateAndGetCategory(t *testing.T) {
	router := newTestRouter(newFakeRepo(), &fakeProducts{}, &fakeItems{})

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"code":"VPP","name":"Văn phòng phẩm"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/categories/", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "VPP", got.Code)
}

func TestCreateCategoryValidation(t *testing.T) {
	router := newTestRouter(newFakeRepo(), &fakeProducts{}, &fakeItems{})

	cases := map[string]string{
		"missing code":  `{"name":"Sách"}`,
		"missing name":  `{"code":"SGK"}`,
		"unknown field": `{"code":"SGK","name":"Sách","extra":true}`,
		"malformed":     `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/categories/", strings.NewReader(body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateCategoryDuplicateCode(t *testing.T) {
	repo := newFakeRepo(Category{ID: 1, Code: "VPP", Name: "Văn phòng phẩm"})
	router := newTestRouter(repo, &fakeProducts{}, &fakeItems{})

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"code":"VPP","name":"Khác"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/categories/", body))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetCategoryNotFound(t *testing.T) {
	router := newTestRouter(newFakeRepo(), &fakeProducts{}, &fakeItems{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAndDeleteCategory(t *testing.T) {
	repo := newFakeRepo(Category{ID: 1, Code: "VPP", Name: "Văn phòng phẩm"})
	router := newTestRouter(repo, &fakeProducts{}, &fakeItems{})

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"code":"VPP","name":"Văn phòng phẩm mới"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/categories/1", body))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Văn phòng phẩm mới", repo.byID[1].Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/categories/1", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, repo.byID)
}

func TestCategoryDetailPayload(t *testing.T) {
	repo := newFakeRepo(Category{ID: 1, Code: "VPP", Name: "Văn phòng phẩm"})
	qty := 7.0
	items := &fakeItems{items: []salesreport.LineItem{{
		Quantity: &qty,
		UnitName: "hộp",
		Invoice:  &salesreport.InvoiceRef{ID: 9, Date: "2026-08-05"},
	}}}
	products := &fakeProducts{products: []CategoryProduct{{ID: 3, Code: "VPP-001", Name: "Bút bi", Unit: "hộp", Price: 60000}}}
	router := newTestRouter(repo, products, items)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/1/detail", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Category     Category               `json:"category"`
		Products     []CategoryProduct      `json:"products"`
		InvoiceItems []salesreport.LineItem `json:"invoiceItems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "VPP", payload.Category.Code)
	require.Len(t, payload.Products, 1)
	require.Len(t, payload.InvoiceItems, 1)
	require.Equal(t, "hộp", payload.InvoiceItems[0].UnitName)
}

func TestDetailEmptySlicesNotNull(t *testing.T) {
	repo := newFakeRepo(Category{ID: 1, Code: "VPP", Name: "Văn phòng phẩm"})
	router := newTestRouter(repo, &fakeProducts{}, &fakeItems{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/1/detail", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"products":[]`)
	require.Contains(t, rec.Body.String(), `"invoiceItems":[]`)
}
