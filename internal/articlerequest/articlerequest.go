package articlerequest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/SergeyParamoshkin/gaefun/internal/model"
)

var (
	ErrMissingArticle = errors.New("missing required Article fields")
	ErrTitleAndBody   = errors.New("title and body are required")
	ErrTitleTooLong   = errors.New("title is longer than 500 characters")
)

const maxTitleLen = 500

// ArticleRequest is the request payload for Article data model.
type ArticleRequest struct {
	*model.Article

	ProtectedID      uint64    `json:"id"`      // override 'id' json to have more control
	ProtectedCreated time.Time `json:"created"` // created is assigned by the store
}

func (a *ArticleRequest) Bind(r *http.Request) error {
	// a.Article is nil if no Article fields are sent in the request. Return an
	// error to avoid a nil pointer dereference.
	if a.Article == nil {
		return ErrMissingArticle
	}

	a.ProtectedID = 0
	a.ProtectedCreated = time.Time{}

	return Validate(a.Article)
}

// Validate trims title and body and checks that both are present.
func Validate(article *model.Article) error {
	article.Title = strings.TrimSpace(article.Title)
	article.Body = strings.TrimSpace(article.Body)

	if article.Title == "" || article.Body == "" {
		return ErrTitleAndBody
	}
	if len([]rune(article.Title)) > maxTitleLen {
		return ErrTitleTooLong
	}

	return nil
}
