package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tiendahub/backoffice/internal/domain/catalog"
	"github.com/tiendahub/backoffice/internal/domain/sale"
	"github.com/tiendahub/backoffice/internal/http/handlers"
)

type fakeSalesStore struct {
	listFn   func(ctx context.Context) ([]sale.Sale, error)
	getFn    func(ctx context.Context, id int64) (sale.Sale, error)
	createFn func(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error)
}

func (f *fakeSalesStore) List(ctx context.Context) ([]sale.Sale, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeSalesStore) GetByID(ctx context.Context, id int64) (sale.Sale, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return sale.Sale{}, sale.ErrNotFound
}

func (f *fakeSalesStore) Create(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return sale.Sale{}, nil, nil
}

type fakeEnqueuer struct {
	enqueued []catalog.Item
	err      error
}

func (f *fakeEnqueuer) EnqueueLowStock(ctx context.Context, item catalog.Item) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, item)
	return nil
}

func TestCreateSaleHandler(t *testing.T) {
	committed := sale.Sale{
		ID:     5,
		Date:   time.Now().UTC(),
		Total:  150,
		Status: sale.StatusCompleted,
		Items: []sale.Item{
			{ItemID: 1, Name: "Widget", Quantity: 3, Price: 50, Total: 150},
		},
	}

	tests := []struct {
		name        string
		body        string
		store       *fakeSalesStore
		wantStatus  int
		wantEnqueue int
	}{
		{
			name: "created with low stock alert",
			body: `{"items":[{"itemId":1,"quantity":3}]}`,
			store: &fakeSalesStore{createFn: func(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
				if len(req.Lines) != 1 || req.Lines[0].ItemID != 1 || req.Lines[0].Quantity != 3 {
					t.Fatalf("unexpected request lines: %+v", req.Lines)
				}
				low := []catalog.Item{{ID: 1, SKU: "W-1", Name: "Widget", Stock: 2, MinStock: 5}}
				return committed, low, nil
			}},
			wantStatus:  http.StatusCreated,
			wantEnqueue: 1,
		},
		{
			name: "created, stock healthy",
			body: `{"items":[{"itemId":1,"quantity":1}]}`,
			store: &fakeSalesStore{createFn: func(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
				return committed, nil, nil
			}},
			wantStatus:  http.StatusCreated,
			wantEnqueue: 0,
		},
		{
			name: "unknown item",
			body: `{"items":[{"itemId":99,"quantity":1}]}`,
			store: &fakeSalesStore{createFn: func(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
				return sale.Sale{}, nil, catalog.ErrNotFound
			}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "insufficient stock",
			body: `{"items":[{"itemId":1,"quantity":100}]}`,
			store: &fakeSalesStore{createFn: func(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
				return sale.Sale{}, nil, catalog.ErrInsufficientStock
			}},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "empty line list",
			body:       `{"items":[]}`,
			store:      &fakeSalesStore{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store failure",
			body: `{"items":[{"itemId":1,"quantity":1}]}`,
			store: &fakeSalesStore{createFn: func(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
				return sale.Sale{}, nil, errors.New("tx aborted")
			}},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			alerts := &fakeEnqueuer{}
			h := handlers.NewSalesHandler(tc.store, alerts)
			r := setupRouter(http.MethodPost, "/sales", h.CreateSale)

			req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d (body=%s)", tc.wantStatus, w.Code, w.Body.String())
			}
			if len(alerts.enqueued) != tc.wantEnqueue {
				t.Fatalf("expected %d enqueued alerts, got %d", tc.wantEnqueue, len(alerts.enqueued))
			}
		})
	}
}

// A failed enqueue is logged, never surfaced: the sale is already committed.
func TestCreateSaleHandler_EnqueueFailureStillCreated(t *testing.T) {
	store := &fakeSalesStore{createFn: func(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
		low := []catalog.Item{{ID: 1, SKU: "W-1", Name: "Widget", Stock: 0, MinStock: 5}}
		return sale.Sale{ID: 9, Status: sale.StatusCompleted}, low, nil
	}}

	h := handlers.NewSalesHandler(store, &fakeEnqueuer{err: errors.New("redis down")})
	r := setupRouter(http.MethodPost, "/sales", h.CreateSale)

	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBufferString(`{"items":[{"itemId":1,"quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 despite enqueue failure, got %d", w.Code)
	}
}

func TestCreateSaleHandler_NilEnqueuer(t *testing.T) {
	store := &fakeSalesStore{createFn: func(ctx context.Context, req sale.CreateSaleRequest) (sale.Sale, []catalog.Item, error) {
		low := []catalog.Item{{ID: 1, SKU: "W-1", Name: "Widget", Stock: 0, MinStock: 5}}
		return sale.Sale{ID: 9, Status: sale.StatusCompleted}, low, nil
	}}

	h := handlers.NewSalesHandler(store, nil)
	r := setupRouter(http.MethodPost, "/sales", h.CreateSale)

	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBufferString(`{"items":[{"itemId":1,"quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 with no queue wired, got %d", w.Code)
	}
}

func TestListSalesHandler(t *testing.T) {
	store := &fakeSalesStore{listFn: func(ctx context.Context) ([]sale.Sale, error) {
		return []sale.Sale{{ID: 1, Total: 10}, {ID: 2, Total: 20}}, nil
	}}

	h := handlers.NewSalesHandler(store, nil)
	r := setupRouter(http.MethodGet, "/sales", h.ListSales)

	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out struct {
		Items []sale.Sale `json:"items"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if out.Count != 2 || len(out.Items) != 2 {
		t.Fatalf("expected 2 sales, got count=%d len=%d", out.Count, len(out.Items))
	}
}

func TestGetSaleByIDHandler(t *testing.T) {
	store := &fakeSalesStore{getFn: func(ctx context.Context, id int64) (sale.Sale, error) {
		if id == 5 {
			return sale.Sale{ID: 5, Total: 150}, nil
		}
		return sale.Sale{}, sale.ErrNotFound
	}}

	h := handlers.NewSalesHandler(store, nil)
	r := setupRouter(http.MethodGet, "/sales/:id", h.GetSaleByID)

	for _, tc := range []struct {
		path       string
		wantStatus int
	}{
		{"/sales/5", http.StatusOK},
		{"/sales/6", http.StatusNotFound},
		{"/sales/x", http.StatusBadRequest},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tc.wantStatus {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.wantStatus, w.Code)
		}
	}
}
