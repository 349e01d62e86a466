package article

import (
	"github.com/SergeyParamoshkin/gaefun/internal/metrics"
	"github.com/SergeyParamoshkin/gaefun/internal/page"
	"github.com/SergeyParamoshkin/gaefun/internal/visits"
)

// Handler serves the blog pages and the articles API.
type Handler struct {
	store    *Store
	pages    *page.Renderer
	visits   *visits.Counter
	counters *metrics.Counters
	pageSize int
}

// NewHandler builds the handler. pageSize caps the blog listing; zero
// lists every article.
func NewHandler(store *Store, pages *page.Renderer, counter *visits.Counter, counters *metrics.Counters, pageSize int) *Handler {
	return &Handler{
		store:    store,
		pages:    pages,
		visits:   counter,
		counters: counters,
		pageSize: pageSize,
	}
}
