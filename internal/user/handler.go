package user

import (
	"net/http"
	"net/url"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/gaefun/internal/errresponse"
	"github.com/SergeyParamoshkin/gaefun/internal/logging"
	"github.com/SergeyParamoshkin/gaefun/internal/metrics"
	"github.com/SergeyParamoshkin/gaefun/internal/page"
	"github.com/SergeyParamoshkin/gaefun/internal/userpayload"
)

// Handler serves the signup pages and the users API.
type Handler struct {
	store    *Store
	pages    *page.Renderer
	counters *metrics.Counters
}

func NewHandler(store *Store, pages *page.Renderer, counters *metrics.Counters) *Handler {
	return &Handler{store: store, pages: pages, counters: counters}
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, page.Signup, nil)
}

// Signup handles the signup form. Errors re-render the form with the
// submitted username and email; passwords are never echoed back.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	data := page.Grab(r, "username", "password", "verify", "email")
	form := Signup{
		Username: data["username"].(string),
		Password: data["password"].(string),
		Verify:   data["verify"].(string),
		Email:    data["email"].(string),
	}

	u, fieldErrs, err := h.store.Register(r.Context(), form)
	if err != nil {
		logging.FromContext(r.Context()).Errorw("signup failed", "username", form.Username, "error", err)
		h.pages.Error(w, r, http.StatusInternalServerError, "Could not sign you up right now.")

		return
	}

	if len(fieldErrs) > 0 {
		delete(data, "password")
		delete(data, "verify")
		for k, v := range fieldErrs {
			data[k] = v
		}
		h.pages.Render(w, r, http.StatusOK, page.Signup, data)

		return
	}

	h.counters.Signups.Add(r.Context(), 1)
	logging.FromContext(r.Context()).Infow("user signed up", "username", u.Username, "id", u.ID)

	http.Redirect(w, r, "/blog/welcome?username="+url.QueryEscape(u.Username), http.StatusSeeOther)
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if !usernameRE.MatchString(username) {
		http.Redirect(w, r, "/blog/signup", http.StatusSeeOther)

		return
	}

	h.pages.Render(w, r, http.StatusOK, page.Welcome, page.Data{"username": username})
}

// CreateUser is the JSON signup. Field errors come back as a 400 with the
// messages keyed like the form's.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	data := &userpayload.SignupRequest{}
	if err := render.Bind(r, data); err != nil {
		if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
			log.Errorw(err.Error())
		}

		return
	}

	u, fieldErrs, err := h.store.Register(r.Context(), Signup(*data))
	if err != nil {
		log.Errorw("signup failed", "error", err)
		if err := render.Render(w, r, errresponse.ErrInternal(err)); err != nil {
			log.Errorw(err.Error())
		}

		return
	}

	if len(fieldErrs) > 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, render.M{"status": "Invalid request.", "errors": fieldErrs})

		return
	}

	h.counters.Signups.Add(r.Context(), 1)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, userpayload.NewUserPayloadResponse(u)); err != nil {
		log.Errorw(err.Error())
	}
}
