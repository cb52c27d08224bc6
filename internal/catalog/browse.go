package catalog

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"

	"hema-storefront/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortAlpha     SortOrder = "A-Z"
	SortPriceAsc  SortOrder = "PRICE_ASC"
	SortPriceDesc SortOrder = "PRICE_DESC"

	// listings without a query only show the first products
	browseLimit = 10
)

var (
	Categories = []string{"Whey", "Creatina", "Granola", "Sementes", "Cereais"}

	FrequentSearches = []string{"Aveia", "Whey", "Creatina", "Granola", "Sem Glúten", "Sementes", "Castanhas"}
)

func ParseSortOrder(s string) (SortOrder, bool) {
	switch o := SortOrder(strings.ToUpper(strings.TrimSpace(s))); o {
	case SortNone, SortAlpha, SortPriceAsc, SortPriceDesc:
		return o, true
	}
	return SortNone, false
}

// Fold lowercases text and strips diacritics so "Glúten" matches "gluten".
func Fold(text string) string {
	if text == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return strings.ToLower(text)
	}
	return strings.ToLower(folded)
}

// Filter keeps the products whose name or description contains query,
// ignoring case and accents, then applies order. An empty query lists the
// first products only.
func Filter(products []model.Product, query string, order SortOrder) []model.Product {
	query = strings.TrimSpace(query)
	q := Fold(query)

	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(Fold(p.Name), q) || strings.Contains(Fold(p.Description), q) {
			result = append(result, p)
		}
	}

	switch order {
	case SortAlpha:
		c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
		sort.SliceStable(result, func(i, j int) bool {
			return c.CompareString(result[i].Name, result[j].Name) < 0
		})
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	}

	if query == "" && len(result) > browseLimit {
		result = result[:browseLimit]
	}
	return result
}

// ByCategory returns the first products whose name mentions category.
func ByCategory(products []model.Product, category string) []model.Product {
	c := Fold(strings.TrimSpace(category))

	result := []model.Product{}
	for _, p := range products {
		if strings.Contains(Fold(p.Name), c) {
			result = append(result, p)
			if len(result) == browseLimit {
				break
			}
		}
	}
	return result
}

// Offers picks up to n random products that are not already displayed.
func Offers(products, displayed []model.Product, n int, rnd *rand.Rand) []model.Product {
	shown := make(map[string]struct{}, len(displayed))
	for _, p := range displayed {
		shown[p.Id] = struct{}{}
	}

	available := make([]model.Product, 0, len(products))
	for _, p := range products {
		if _, ok := shown[p.Id]; !ok {
			available = append(available, p)
		}
	}

	rnd.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	if n < len(available) {
		available = available[:n]
	}
	return available
}

// Head returns the first n products.
func Head(products []model.Product, n int) []model.Product {
	if n > len(products) {
		n = len(products)
	}
	if n < 0 {
		n = 0
	}
	out := make([]model.Product, n)
	copy(out, products[:n])
	return out
}
