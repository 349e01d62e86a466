package user

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/SergeyParamoshkin/gaefun/internal/model"
)

var (
	usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	passwordRE = regexp.MustCompile(`^.{3,20}$`)
	emailRE    = regexp.MustCompile(`^[\S]+@[\S]+\.[\S]+$`)
)

// emailMaxLen matches the size of the users.email column.
const emailMaxLen = 320

// Messages shown next to the offending field.
const (
	MsgUsername     = "That's not a valid username."
	MsgUsernameUsed = "That user already exists."
	MsgPassword     = "That wasn't a valid password."
	MsgVerify       = "Passwords must match"
	MsgEmail        = "That's not a valid email."
)

// Signup is a submitted signup form.
type Signup struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Verify   string `json:"verify"`
	Email    string `json:"email"`
}

// FieldErrors maps a template error key (e.g. "verify_error") to its
// message.
type FieldErrors map[string]string

// Validate checks the form without touching the store.
func (s Signup) Validate() FieldErrors {
	errs := FieldErrors{}

	if !usernameRE.MatchString(s.Username) {
		errs["username_error"] = MsgUsername
	}
	if !passwordRE.MatchString(s.Password) {
		errs["password_error"] = MsgPassword
	} else if s.Password != s.Verify {
		errs["verify_error"] = MsgVerify
	}
	if s.Email != "" && (utf8.RuneCountInString(s.Email) > emailMaxLen || !emailRE.MatchString(s.Email)) {
		errs["email_error"] = MsgEmail
	}

	return errs
}

// Register validates the form and stores the user with a bcrypt hash of
// the password. A non-empty FieldErrors means nothing was stored.
func (s *Store) Register(ctx context.Context, form Signup) (*model.User, FieldErrors, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	_, err := s.FindByUsername(ctx, form.Username)
	if err == nil {
		return nil, FieldErrors{"username_error": MsgUsernameUsed}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	u := &model.User{
		Username:     form.Username,
		PasswordHash: string(hash),
		Email:        form.Email,
	}

	err = s.Create(ctx, u)
	if errors.Is(err, ErrUsernameTaken) {
		return nil, FieldErrors{"username_error": MsgUsernameUsed}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	return u, nil, nil
}

// VerifyPassword compares a stored hash with a plaintext password.
func VerifyPassword(u *model.User, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
