package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"hema-storefront/internal/database"
	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"
)

// fakeCartTable behaves like the hosted cart table for a handful of customers.
type fakeCartTable struct {
	mu   sync.Mutex
	rows map[string]json.RawMessage
}

func (f *fakeCartTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		id := r.URL.Query().Get(CustomerIdFieldPath)[len("eq."):]
		raw, ok := f.rows[id]
		if !ok {
			w.Write([]byte(`[]`))
			return
		}
		out, _ := json.Marshal([]map[string]json.RawMessage{{ItemsFieldPath: raw}})
		w.Write(out)
	case http.MethodPost:
		b, _ := io.ReadAll(r.Body)
		var row model.CartRow
		if err := json.Unmarshal(b, &row); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// stored as the JSON string the client sent
		quoted, _ := json.Marshal(row.Itens)
		f.rows[row.ClienteId] = quoted
		w.WriteHeader(http.StatusCreated)
	}
}

func TestRestRepositoryRoundTrip(t *testing.T) {
	table := &fakeCartTable{rows: map[string]json.RawMessage{}}
	srv := httptest.NewServer(table)
	defer srv.Close()

	repo := NewRest(database.NewRestClient(srv.URL, "key", time.Second))
	ctx := context.Background()

	_, err := repo.Get(ctx, "554184418576")
	if !errors.Is(err, ierr.NotFound) {
		t.Fatalf("expected NotFound before the first write, got %v", err)
	}

	items := []model.CartItem{
		{Nome: "Aveia", Tipo: model.ItemKindUnit, Total: 10, QtdDesc: model.DefaultQuantityDesc, QtdNumerica: 2},
		{Nome: "Whey", Tipo: model.ItemKindUnit, Total: 25.5, QtdDesc: model.DefaultQuantityDesc, QtdNumerica: 1},
	}
	if err := repo.Upsert(ctx, "554184418576", items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "554184418576")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != items[0] || got[1] != items[1] {
		t.Fatalf("got %+v, want %+v", got, items)
	}

	if err := repo.Upsert(ctx, "554184418576", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = repo.Get(ctx, "554184418576")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected an empty cart, got %+v (%v)", got, err)
	}
}

func TestRestRepositoryNativeArray(t *testing.T) {
	table := &fakeCartTable{rows: map[string]json.RawMessage{
		"1": json.RawMessage(`[{"nome":"Granola","tipo":"UNITARIO","total":8,"qtd_desc":"1 un","qtd_numerica":4}]`),
	}}
	srv := httptest.NewServer(table)
	defer srv.Close()

	repo := NewRest(database.NewRestClient(srv.URL, "key", time.Second))
	got, err := repo.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].QtdNumerica != 4 {
		t.Fatalf("unexpected items %+v", got)
	}
}
