package search

import (
	"context"
	"errors"

	"hema-storefront/internal/model"

	"github.com/rs/zerolog/log"
)

// LiveResult is what an interactive search shows after each settled query or page.
type LiveResult struct {
	Query   string
	Display Display
	HasMore bool
	Err     error
}

// LiveSearch drives a Session from keystrokes: queries are debounced, gated
// against the catalog and handed to onResult. Superseded responses are dropped.
type LiveSearch struct {
	session   *Session
	debouncer *Debouncer
	gate      Gate
	products  []model.Product
	onResult  func(LiveResult)
}

func NewLiveSearch(session *Session, debouncer *Debouncer, gate Gate, products []model.Product, onResult func(LiveResult)) *LiveSearch {
	return &LiveSearch{
		session:   session,
		debouncer: debouncer,
		gate:      gate,
		products:  products,
		onResult:  onResult,
	}
}

// Type records a new query value. The search runs once typing settles.
func (l *LiveSearch) Type(ctx context.Context, query string) {
	l.debouncer.Call(ctx, func(ctx context.Context) {
		snap, err := l.session.Start(ctx, query)
		l.emit(ctx, snap, err)
	})
}

// More loads the next page of the current query.
func (l *LiveSearch) More(ctx context.Context) {
	snap, err := l.session.NextPage(ctx)
	l.emit(ctx, snap, err)
}

func (l *LiveSearch) Close() {
	l.debouncer.Stop()
}

func (l *LiveSearch) emit(ctx context.Context, snap Snapshot, err error) {
	if errors.Is(err, ErrStale) || ctx.Err() != nil {
		return
	}
	if err != nil {
		log.Error().Err(err).Str("query", snap.Query).Msg("live search failed")
	}

	result := model.SearchResult{Products: snap.Products, MaxScore: snap.MaxScore}
	l.onResult(LiveResult{
		Query:   snap.Query,
		Display: l.gate.Apply(snap.Query, result, l.products),
		HasMore: snap.HasMore,
		Err:     err,
	})
}
