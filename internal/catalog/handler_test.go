package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/hokkystyle/toolrent-backend/pkg/logging"
)

type fakeStore struct {
	tools      []Tool
	reviews    []Review
	toolsErr   error
	reviewsErr error
}

func (s *fakeStore) Inventory(ctx context.Context) ([]Tool, error) {
	return s.tools, s.toolsErr
}

func (s *fakeStore) Reviews(ctx context.Context) ([]Review, error) {
	return s.reviews, s.reviewsErr
}

func getInventory(t *testing.T, h *Handler) []Tool {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	w := httptest.NewRecorder()
	h.GetInventory(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var tools []Tool
	if err := json.NewDecoder(w.Body).Decode(&tools); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return tools
}

func TestGetInventory_NoStoreServesSamples(t *testing.T) {
	h := NewHandler(nil, logging.Default())
	if got := getInventory(t, h); !reflect.DeepEqual(got, SampleInventory()) {
		t.Errorf("expected exact sample inventory, got %+v", got)
	}
}

func TestGetInventory_EmptyResultServesSamples(t *testing.T) {
	h := NewHandler(&fakeStore{tools: nil}, logging.Default())
	if got := getInventory(t, h); !reflect.DeepEqual(got, SampleInventory()) {
		t.Errorf("expected exact sample inventory, got %+v", got)
	}
}

func TestGetInventory_QueryErrorServesSamples(t *testing.T) {
	h := NewHandler(&fakeStore{toolsErr: errors.New("connection refused")}, logging.Default())
	if got := getInventory(t, h); !reflect.DeepEqual(got, SampleInventory()) {
		t.Errorf("expected exact sample inventory, got %+v", got)
	}
}

func TestGetInventory_StoreRowsWin(t *testing.T) {
	rows := []Tool{{ID: "angle-grinder", Name: "Болгарка 125 мм", DailyPrice: 700, Availability: "in_stock", Quantity: 2}}
	h := NewHandler(&fakeStore{tools: rows}, logging.Default())
	if got := getInventory(t, h); !reflect.DeepEqual(got, rows) {
		t.Errorf("expected store rows, got %+v", got)
	}
}

func TestGetReviews_NoStoreServesSamples(t *testing.T) {
	h := NewHandler(nil, logging.Default())
	req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	w := httptest.NewRecorder()
	h.GetReviews(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var reviews []Review
	if err := json.NewDecoder(w.Body).Decode(&reviews); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 sample reviews, got %d", len(reviews))
	}
	if reviews[0].Author != "Андрей" || reviews[1].Author != "Мария" {
		t.Errorf("unexpected sample reviews: %+v", reviews)
	}
}

func TestFallbackToolName(t *testing.T) {
	if got := FallbackToolName("rotary-hammer"); got != "Перфоратор SDS-Plus" {
		t.Errorf("expected sample name, got %q", got)
	}
	if got := FallbackToolName("unknown-id"); got != "" {
		t.Errorf("expected empty string for unknown id, got %q", got)
	}
}
