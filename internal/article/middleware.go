package article

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/gaefun/internal/errresponse"
	"github.com/SergeyParamoshkin/gaefun/internal/logging"
	"github.com/SergeyParamoshkin/gaefun/internal/model"
)

type ctxKey int8

const (
	ctxKeyArticle ctxKey = iota
	ctxKeyPage
)

const maxPageLimit = 100

// ArticleCtx middleware is used to load an Article object from
// the URL parameters passed through as the request. In case
// the Article could not be found, we stop here and return a 404.
func (h *Handler) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())

		id, err := strconv.ParseUint(chi.URLParam(r, "articleID"), 10, 64)
		if err != nil {
			if err := render.Render(w, r, errresponse.ErrNotFound); err != nil {
				log.Errorw(err.Error())
			}

			return
		}

		article, err := h.store.Get(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			if err := render.Render(w, r, errresponse.ErrNotFound); err != nil {
				log.Errorw(err.Error())
			}

			return
		}
		if err != nil {
			log.Errorw("load article", "id", id, "error", err)
			if err := render.Render(w, r, errresponse.ErrInternal(err)); err != nil {
				log.Errorw(err.Error())
			}

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, article)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// articleFromContext returns the article loaded by ArticleCtx. The handler
// is only mounted behind ArticleCtx, so a missing value is a programming
// error and the Recoverer middleware will save us.
func articleFromContext(ctx context.Context) *model.Article {
	return ctx.Value(ctxKeyArticle).(*model.Article)
}

// Paginate reads the limit and offset query parameters into a Page on
// the request context. Bad values answer 400; the limit is capped.
func Paginate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Page

		for name, dst := range map[string]*int{"limit": &p.Limit, "offset": &p.Offset} {
			v := r.URL.Query().Get(name)
			if v == "" {
				continue
			}

			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				if err == nil {
					err = errors.New(name + " must not be negative")
				}
				if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
					logging.FromContext(r.Context()).Errorw(err.Error())
				}

				return
			}
			*dst = n
		}

		if p.Limit == 0 || p.Limit > maxPageLimit {
			p.Limit = maxPageLimit
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyPage, p)))
	})
}

func pageFromContext(ctx context.Context) Page {
	p, _ := ctx.Value(ctxKeyPage).(Page)

	return p
}
