package storefront

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hema-storefront/internal/catalog"
	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"
	"hema-storefront/internal/search"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	offersCount       = 5
	defaultSimilarCnt = 4
	maxSimilarCnt     = 20
	maxSearchLimit    = 50
)

// ProductSource returns the normalized catalog.
type ProductSource interface {
	Products(ctx context.Context) []model.Product
}

type SimilarFinder interface {
	Find(ctx context.Context, productID string, count int) ([]string, error)
}

type Handler struct {
	products   ProductSource
	searcher   search.Searcher
	embeddings search.EmbeddingCache
	similar    SimilarFinder
	gate       search.Gate
	pageSize   int
	newRand    func() *rand.Rand
}

func New(
	products ProductSource,
	searcher search.Searcher,
	embeddings search.EmbeddingCache,
	similar SimilarFinder,
	gate search.Gate,
	pageSize int) *Handler {

	return &Handler{
		products:   products,
		searcher:   searcher,
		embeddings: embeddings,
		similar:    similar,
		gate:       gate,
		pageSize:   pageSize,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/home", h.Home)
	rg.GET("/products", h.List)
	rg.GET("/products/:id", h.Get)
	rg.GET("/products/:id/similar", h.Similar)
	rg.GET("/search", h.Search)
}

type homeResponse struct {
	Products   []model.ScoredProduct `json:"products"`
	NoMatch    bool                  `json:"noMatch"`
	Offers     []model.Product       `json:"offers"`
	Categories []string              `json:"categories"`
	Notice     string                `json:"notice,omitempty"`
}

// Home builds the storefront front page. A query is answered by hybrid search
// behind the relevance gate, a category by a local name match, and nothing by
// the head of the catalog. Offers are only shown without a query.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("q"))
	category := strings.TrimSpace(c.Query("category"))
	products := h.products.Products(ctx)

	resp := homeResponse{
		Offers:     []model.Product{},
		Categories: catalog.Categories,
	}

	switch {
	case query != "":
		result, err := h.searcher.Search(ctx, query, h.pageSize, 0, nil)
		if err != nil {
			log.Error().Err(err).Str("query", query).Msg("home: search failed")
			resp.Notice = "Search is unavailable right now."
		}
		display := h.gate.Apply(query, result, products)
		resp.Products = display.Products
		resp.NoMatch = display.NoMatch

	case category != "":
		resp.Products = scoredless(catalog.ByCategory(products, category))

	default:
		resp.Products = h.gate.Apply("", model.SearchResult{}, products).Products
	}

	if query == "" {
		displayed := make([]model.Product, 0, len(resp.Products))
		for _, p := range resp.Products {
			displayed = append(displayed, p.Product)
		}
		resp.Offers = catalog.Offers(products, displayed, offersCount, h.newRand())
	}

	c.JSON(http.StatusOK, resp)
}

type searchResponse struct {
	Query      string                `json:"query"`
	Products   []model.ScoredProduct `json:"products"`
	MaxScore   float64               `json:"maxScore"`
	HasMore    bool                  `json:"hasMore"`
	NextOffset int                   `json:"nextOffset"`
	Notice     string                `json:"notice,omitempty"`
}

// Search returns one page of hybrid search results. The embedding computed for
// the first page is cached and sent along when later pages are requested.
func (h *Handler) Search(c *gin.Context) {
	limit, err := intQuery(c, "limit", h.pageSize, 1, maxSearchLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offset, err := intQuery(c, "offset", 0, 0, -1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("q"))

	var embedding []float32
	if offset > 0 {
		embedding, _ = h.embeddings.Get(ctx, query)
	}

	resp := searchResponse{Query: query, NextOffset: offset}
	result, err := h.searcher.Search(ctx, query, limit, offset, embedding)
	if err != nil {
		log.Error().Err(err).Str("query", query).Int("offset", offset).Msg("search failed")
		resp.Notice = "Search is unavailable right now."
	}
	if offset == 0 && len(result.Embedding) > 0 {
		h.embeddings.Set(ctx, query, result.Embedding)
	}

	resp.Products = result.Products
	if resp.Products == nil {
		resp.Products = []model.ScoredProduct{}
	}
	resp.MaxScore = result.MaxScore
	resp.HasMore = len(result.Products) >= limit
	resp.NextOffset = offset + len(result.Products)
	c.JSON(http.StatusOK, resp)
}

type listResponse struct {
	Products         []model.Product `json:"products"`
	FrequentSearches []string        `json:"frequentSearches"`
}

// List filters the catalog locally. sort is one of A-Z, PRICE_ASC or PRICE_DESC.
func (h *Handler) List(c *gin.Context) {
	order, ok := catalog.ParseSortOrder(c.Query("sort"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of A-Z, PRICE_ASC, PRICE_DESC"})
		return
	}

	products := h.products.Products(c.Request.Context())
	c.JSON(http.StatusOK, listResponse{
		Products:         catalog.Filter(products, c.Query("q"), order),
		FrequentSearches: catalog.FrequentSearches,
	})
}

func (h *Handler) Get(c *gin.Context) {
	p, ok := h.find(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) Similar(c *gin.Context) {
	count, err := intQuery(c, "count", defaultSimilarCnt, 1, maxSimilarCnt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	ids, err := h.similar.Find(ctx, id, count)
	if errors.Is(err, ierr.NotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("product", id).Msg("similar products failed")
		c.JSON(http.StatusOK, gin.H{"products": []model.Product{}, "notice": "Similar products are unavailable right now."})
		return
	}

	byID := map[string]model.Product{}
	for _, p := range h.products.Products(ctx) {
		byID[p.Id] = p
	}
	similar := make([]model.Product, 0, len(ids))
	for _, sid := range ids {
		if p, ok := byID[sid]; ok {
			similar = append(similar, p)
		}
	}
	c.JSON(http.StatusOK, gin.H{"products": similar})
}

func (h *Handler) find(ctx context.Context, id string) (model.Product, bool) {
	for _, p := range h.products.Products(ctx) {
		if p.Id == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func scoredless(products []model.Product) []model.ScoredProduct {
	out := make([]model.ScoredProduct, 0, len(products))
	for _, p := range products {
		out = append(out, model.ScoredProduct{Product: p})
	}
	return out
}

// intQuery reads an integer query parameter within [lo, hi]; hi < 0 means unbounded.
func intQuery(c *gin.Context, key string, def, lo, hi int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi >= 0 && n > hi) {
		if hi < 0 {
			return 0, fmt.Errorf("%s must be an integer >= %d", key, lo)
		}
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}
