package article

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/gaefun/internal/articlerequest"
	"github.com/SergeyParamoshkin/gaefun/internal/articleresponse"
	"github.com/SergeyParamoshkin/gaefun/internal/errresponse"
	"github.com/SergeyParamoshkin/gaefun/internal/logging"
)

// ListArticles returns a page of articles, newest first.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	articles, err := h.store.List(r.Context(), pageFromContext(r.Context()))
	if err != nil {
		log.Errorw("list articles", "error", err)
		if err := render.Render(w, r, errresponse.ErrInternal(err)); err != nil {
			log.Errorw(err.Error())
		}

		return
	}

	if err := render.RenderList(w, r, articleresponse.NewArticleListResponse(articles)); err != nil {
		if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
			log.Errorw(err.Error())
		}

		return
	}
}

// CreateArticle persists the posted Article and returns it
// back to the client as an acknowledgement.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
			log.Errorw(err.Error())
		}

		return
	}

	article := data.Article
	if err := h.store.Create(r.Context(), article); err != nil {
		log.Errorw("create article", "error", err)
		if err := render.Render(w, r, errresponse.ErrInternal(err)); err != nil {
			log.Errorw(err.Error())
		}

		return
	}

	h.counters.ArticlesCreated.Add(r.Context(), 1)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		log.Errorw(err.Error())
	}
}

// GetArticle returns the Article loaded by ArticleCtx.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article := articleFromContext(r.Context())

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
			logging.FromContext(r.Context()).Errorw(err.Error())
		}

		return
	}
}
