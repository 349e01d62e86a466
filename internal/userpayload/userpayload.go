package userpayload

import (
	"errors"
	"net/http"

	"github.com/SergeyParamoshkin/gaefun/internal/model"
)

var ErrMissingUsername = errors.New("missing username")

// SignupRequest is the request payload for a JSON signup.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Verify   string `json:"verify"`
	Email    string `json:"email"`
}

// Bind on SignupRequest runs after the unmarshalling is complete. The
// field rules live with the user store; this only rejects empty bodies.
func (s *SignupRequest) Bind(r *http.Request) error {
	if s.Username == "" {
		return ErrMissingUsername
	}

	return nil
}

// UserPayload is the response payload for the User data model. The
// password hash never leaves the server.
type UserPayload struct {
	*model.User
}

func NewUserPayloadResponse(user *model.User) *UserPayload {
	return &UserPayload{User: user}
}

func (u *UserPayload) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
