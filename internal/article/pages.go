package article

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SergeyParamoshkin/gaefun/internal/articlerequest"
	"github.com/SergeyParamoshkin/gaefun/internal/articleresponse"
	"github.com/SergeyParamoshkin/gaefun/internal/logging"
	"github.com/SergeyParamoshkin/gaefun/internal/model"
	"github.com/SergeyParamoshkin/gaefun/internal/page"
)

const msgTitleAndBody = "Title *and* body"

// Home renders the front page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, page.Main, nil)
}

// Blog lists the articles newest first and counts the visit.
func (h *Handler) Blog(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	articles, err := h.store.List(r.Context(), Page{Limit: h.pageSize})
	if err != nil {
		log.Errorw("list articles", "error", err)
		h.pages.Error(w, r, http.StatusInternalServerError, "Could not load the blog.")

		return
	}

	count, err := h.visits.Next(r)
	if err != nil {
		log.Infow("visits cookie rejected", "error", err)
	}
	http.SetCookie(w, h.visits.Cookie(count))
	h.counters.Visits.Add(r.Context(), 1)

	h.pages.Render(w, r, http.StatusOK, page.Blog, page.Data{
		"articles": articles,
		"visits":   count,
	})
}

// LonePost renders a single article.
func (h *Handler) LonePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "articleID"), 10, 64)
	if err != nil {
		h.pages.Error(w, r, http.StatusNotFound, "There is no such post.")

		return
	}

	article, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		h.pages.Error(w, r, http.StatusNotFound, "There is no such post.")

		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Errorw("get article", "id", id, "error", err)
		h.pages.Error(w, r, http.StatusInternalServerError, "Could not load the post.")

		return
	}

	h.pages.Render(w, r, http.StatusOK, page.LonePost, page.Data{"article": article})
}

func (h *Handler) NewPostPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, page.NewPost, nil)
}

// NewPost persists a submitted article and redirects to its permalink.
// A missing title or body re-renders the form and stores nothing.
func (h *Handler) NewPost(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	data := page.Grab(r, "title", "body")

	article := &model.Article{
		Title: data["title"].(string),
		Body:  data["body"].(string),
	}
	if err := articlerequest.Validate(article); err != nil {
		data["error"] = msgTitleAndBody
		if errors.Is(err, articlerequest.ErrTitleTooLong) {
			data["error"] = "That title is too long."
		}
		h.pages.Render(w, r, http.StatusOK, page.NewPost, data)

		return
	}

	if err := h.store.Create(r.Context(), article); err != nil {
		log.Errorw("create article", "error", err)
		h.pages.Error(w, r, http.StatusInternalServerError, "Could not save the post.")

		return
	}

	h.counters.ArticlesCreated.Add(r.Context(), 1)
	log.Infow("article created", "id", article.ID)

	http.Redirect(w, r, articleresponse.Permalink(article.ID), http.StatusSeeOther)
}
