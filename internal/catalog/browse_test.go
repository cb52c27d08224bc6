package catalog

import (
	"fmt"
	"math/rand"
	"testing"

	"hema-storefront/internal/model"
)

func sampleProducts() []model.Product {
	return []model.Product{
		{Id: "1", Name: "Whey Protein", Price: 120, Description: "Proteína do soro"},
		{Id: "2", Name: "Aveia em Flocos", Price: 9.9},
		{Id: "3", Name: "Granola sem Glúten", Price: 18.5, Description: "Com castanhas"},
		{Id: "4", Name: "Creatina", Price: 89},
		{Id: "5", Name: "Açaí em Pó", Price: 45},
	}
}

func ids(products []model.Product) string {
	s := ""
	for _, p := range products {
		s += p.Id
	}
	return s
}

func TestFilter(t *testing.T) {
	products := sampleProducts()

	tests := []struct {
		name  string
		query string
		order SortOrder
		want  string
	}{
		{"all in backend order", "", SortNone, "12345"},
		{"accent insensitive", "gluten", SortNone, "3"},
		{"matches description", "CASTANHAS", SortNone, "3"},
		{"matches description accents", "proteina", SortNone, "1"},
		{"alphabetical", "", SortAlpha, "52431"},
		{"price ascending", "", SortPriceAsc, "23541"},
		{"price descending", "", SortPriceDesc, "14532"},
		{"no match", "quinoa", SortNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Filter(products, tt.query, tt.order)); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterLimitsEmptyQuery(t *testing.T) {
	products := []model.Product{}
	for i := 0; i < 25; i++ {
		products = append(products, model.Product{Id: fmt.Sprint(i), Name: "Aveia"})
	}

	if got := len(Filter(products, "", SortNone)); got != 10 {
		t.Fatalf("empty query listing has %d products, want 10", got)
	}
	if got := len(Filter(products, "aveia", SortNone)); got != 25 {
		t.Fatalf("query listing has %d products, want 25", got)
	}
}

func TestByCategory(t *testing.T) {
	if got := ids(ByCategory(sampleProducts(), "granola")); got != "3" {
		t.Fatalf("got %q", got)
	}
	if got := ids(ByCategory(sampleProducts(), "acai")); got != "5" {
		t.Fatalf("got %q", got)
	}
}

func TestOffers(t *testing.T) {
	products := sampleProducts()
	displayed := products[:2]

	offers := Offers(products, displayed, 2, rand.New(rand.NewSource(1)))
	if len(offers) != 2 {
		t.Fatalf("got %d offers", len(offers))
	}
	for _, o := range offers {
		if o.Id == "1" || o.Id == "2" {
			t.Fatalf("offer %s is already displayed", o.Id)
		}
	}

	all := Offers(products, displayed, 10, rand.New(rand.NewSource(1)))
	if len(all) != 3 {
		t.Fatalf("got %d offers, want the 3 remaining products", len(all))
	}
}

func TestParseSortOrder(t *testing.T) {
	if o, ok := ParseSortOrder("price_asc"); !ok || o != SortPriceAsc {
		t.Fatalf("got %q %v", o, ok)
	}
	if _, ok := ParseSortOrder("random"); ok {
		t.Fatal("unknown sort order accepted")
	}
}

func TestHead(t *testing.T) {
	products := sampleProducts()
	if got := ids(Head(products, 3)); got != "123" {
		t.Fatalf("got %q", got)
	}
	if got := len(Head(products, 100)); got != 5 {
		t.Fatalf("got %d", got)
	}
}
