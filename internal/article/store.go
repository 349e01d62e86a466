package article

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SergeyParamoshkin/gaefun/internal/model"
)

var ErrNotFound = errors.New("article not found")

// Page bounds a listing. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// Store persists articles.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts the article and fills in its ID and Created time.
func (s *Store) Create(ctx context.Context, article *model.Article) error {
	article.ID = 0
	if err := s.db.WithContext(ctx).Create(article).Error; err != nil {
		return fmt.Errorf("create article: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uint64) (*model.Article, error) {
	var a model.Article

	err := s.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}

	return &a, nil
}

// List returns articles newest first.
func (s *Store) List(ctx context.Context, page Page) ([]*model.Article, error) {
	q := s.db.WithContext(ctx).Order("created DESC").Order("id DESC")
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}

	articles := []*model.Article{}
	if err := q.Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return articles, nil
}
