package articleresponse

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/gaefun/internal/model"
)

// ArticleResponse is the response payload for the Article data model.
//
// In the ArticleResponse object, first a Render() is called on itself,
// then the next field, and so on, all the way down the tree.
type ArticleResponse struct {
	*model.Article

	// Permalink is the HTML page of the article.
	Permalink string `json:"permalink"`
}

func NewArticleListResponse(articles []*model.Article) []render.Renderer {
	list := []render.Renderer{}
	for _, article := range articles {
		list = append(list, NewArticleResponse(article))
	}

	return list
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	rd.Permalink = Permalink(rd.ID)

	return nil
}

// Permalink is the path of an article's page.
func Permalink(id uint64) string {
	return fmt.Sprintf("/blog/%d", id)
}
