package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SergeyParamoshkin/gaefun/internal/model"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Store persists users.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u *model.User) error {
	u.ID = 0

	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}

	return &u, nil
}
