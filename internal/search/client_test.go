package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hema-storefront/internal/database"
)

func TestClientSearch(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functions/v1/hybrid-search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{
			"products": [
				{"id": 3, "nome": "GRANOLA SEM GLUTEN", "preço": "R$ 18,50", "quantidade": "2", "descricao": null, "url_imagem": "g.png", "score": 0.82},
				{"id": "4", "nome": "aveia", "preço": 9.9, "quantidade": 5, "score": 0.51}
			],
			"embedding": [0.1, 0.2]
		}`))
	}))
	defer srv.Close()

	c := NewClient(database.NewRestClient(srv.URL, "key", time.Second), "hybrid-search")
	result, err := c.Search(context.Background(), "granola", 15, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["query"] != "granola" || got["limit"] != float64(15) || got["offset"] != float64(0) || got["embedding"] != nil {
		t.Errorf("unexpected request body %v", got)
	}
	if len(result.Products) != 2 {
		t.Fatalf("got %d products", len(result.Products))
	}
	first := result.Products[0]
	if first.Id != "3" || first.Name != "Granola sem Gluten" || first.Price != 18.5 || first.Quantity != 2 || first.ImageUrl != "g.png" {
		t.Errorf("unexpected first product %+v", first)
	}
	if result.Products[1].Price != 9.9 || result.Products[1].Quantity != 5 {
		t.Errorf("unexpected second product %+v", result.Products[1])
	}
	if result.MaxScore != 0.82 {
		t.Errorf("max score = %v", result.MaxScore)
	}
	if len(result.Embedding) != 2 {
		t.Errorf("embedding = %v", result.Embedding)
	}
}

func TestClientSearchSendsEmbedding(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"products": []}`))
	}))
	defer srv.Close()

	c := NewClient(database.NewRestClient(srv.URL, "key", time.Second), "hybrid-search")
	result, err := c.Search(context.Background(), "aveia", 15, 15, []float32{0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb, ok := got["embedding"].([]any); !ok || len(emb) != 1 {
		t.Errorf("embedding not sent: %v", got)
	}
	if got["offset"] != float64(15) {
		t.Errorf("offset = %v", got["offset"])
	}
	if result.MaxScore != 0 || len(result.Products) != 0 {
		t.Errorf("unexpected result %+v", result)
	}
}

type countingInvoker struct {
	calls int
	err   error
}

func (c *countingInvoker) Invoke(ctx context.Context, function string, body, out any) error {
	c.calls++
	return c.err
}

func TestClientSearchBlankQuery(t *testing.T) {
	inv := &countingInvoker{}
	c := NewClient(inv, "hybrid-search")

	result, err := c.Search(context.Background(), "   ", 15, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.calls != 0 {
		t.Fatalf("blank query hit the backend %d times", inv.calls)
	}
	if result.Products == nil || len(result.Products) != 0 || result.MaxScore != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestClientSearchFailure(t *testing.T) {
	c := NewClient(&countingInvoker{err: errors.New("boom")}, "hybrid-search")

	result, err := c.Search(context.Background(), "aveia", 15, 0, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if result.Products == nil || len(result.Products) != 0 {
		t.Fatalf("failed search should be empty, got %+v", result)
	}
}
