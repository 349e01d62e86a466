package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SergeyParamoshkin/gaefun/internal/article"
	"github.com/SergeyParamoshkin/gaefun/internal/database"
	"github.com/SergeyParamoshkin/gaefun/internal/logging"
	"github.com/SergeyParamoshkin/gaefun/internal/metrics"
	"github.com/SergeyParamoshkin/gaefun/internal/page"
	"github.com/SergeyParamoshkin/gaefun/internal/user"
	"github.com/SergeyParamoshkin/gaefun/internal/visits"
)

// Options configure the application router.
type Options struct {
	DB           *gorm.DB
	Logger       *zap.SugaredLogger
	Counters     *metrics.Counters
	CookieSecret string
	CacheMaxAge  int
	PageSize     int

	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter assembles the blog's routes.
func NewRouter(opts Options) (chi.Router, error) {
	pages, err := page.New(opts.CacheMaxAge)
	if err != nil {
		return nil, err
	}

	articles := article.NewHandler(
		article.NewStore(opts.DB),
		pages,
		visits.NewCounter(opts.CookieSecret),
		opts.Counters,
		opts.PageSize,
	)
	users := user.NewHandler(user.NewStore(opts.DB), pages, opts.Counters)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(opts.Logger))
	if opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(opts.Counters.Middleware)
	r.Use(func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pages.Error(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
	})

	r.Get("/", articles.Home)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("pong")); err != nil {
			logging.FromContext(r.Context()).Errorw(err.Error())
		}
	})

	page.FileServer(r, "/static", page.Static())

	// Mounted routers answer both "/blog" and "/blog/" on "/".
	r.Route("/blog", func(r chi.Router) {
		r.Get("/", articles.Blog)
		r.Post("/", articles.Blog)

		r.Get("/newpost", articles.NewPostPage)
		r.Post("/newpost", articles.NewPost)

		r.Get("/{articleID:[0-9]+}", articles.LonePost)

		r.Get("/signup", users.SignupPage)
		r.Post("/signup", users.Signup)
		r.Get("/welcome", users.Welcome)
	})
	r.Get("/signup", users.SignupPage)
	r.Post("/signup", users.Signup)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Route("/articles", func(r chi.Router) {
			r.With(article.Paginate).Get("/", articles.ListArticles)
			r.Post("/", articles.CreateArticle)

			r.Route("/{articleID}", func(r chi.Router) {
				r.Use(articles.ArticleCtx)
				r.Get("/", articles.GetArticle)
			})
		})

		r.Post("/users", users.CreateUser)
	})

	return r, nil
}

// NewDiagRouter serves metrics and the health check.
func NewDiagRouter(db *gorm.DB, metricsHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	if metricsHandler != nil {
		r.Get("/metrics", metricsHandler.ServeHTTP)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(db); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte("ok"))
	})

	return r
}
