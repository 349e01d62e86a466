package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/SergeyParamoshkin/gaefun/internal/database"
	"github.com/SergeyParamoshkin/gaefun/internal/metrics"
	"github.com/SergeyParamoshkin/gaefun/internal/model"
	"github.com/SergeyParamoshkin/gaefun/internal/page"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, "file::memory:", nil)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	return NewStore(db)
}

func TestSignupValidate(t *testing.T) {
	tests := []struct {
		name string
		form Signup
		want FieldErrors
	}{
		{"valid", Signup{Username: "jugurtha", Password: "secret", Verify: "secret"}, FieldErrors{}},
		{"valid with email", Signup{Username: "ju_g-1", Password: "abc", Verify: "abc", Email: "j@example.com"}, FieldErrors{}},
		{"mismatch", Signup{Username: "jugurtha", Password: "secret", Verify: "secreT"},
			FieldErrors{"verify_error": MsgVerify}},
		{"short username", Signup{Username: "ju", Password: "secret", Verify: "secret"},
			FieldErrors{"username_error": MsgUsername}},
		{"spaces in username", Signup{Username: "ju g", Password: "secret", Verify: "secret"},
			FieldErrors{"username_error": MsgUsername}},
		{"short password", Signup{Username: "jugurtha", Password: "ab", Verify: "ab"},
			FieldErrors{"password_error": MsgPassword}},
		{"bad email", Signup{Username: "jugurtha", Password: "secret", Verify: "secret", Email: "nope"},
			FieldErrors{"email_error": MsgEmail}},
		{"email too long", Signup{Username: "jugurtha", Password: "secret", Verify: "secret",
			Email: strings.Repeat("a", 310) + "@example.com"},
			FieldErrors{"email_error": MsgEmail}},
		{"everything wrong", Signup{Username: "!", Password: "", Email: "x@y"},
			FieldErrors{"username_error": MsgUsername, "password_error": MsgPassword, "email_error": MsgEmail}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.form.Validate()); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	form := Signup{Username: "jugurtha", Password: "secret", Verify: "secret", Email: "j@example.com"}

	u, errs, err := s.Register(ctx, form)
	if err != nil || len(errs) > 0 {
		t.Fatalf("Register() = %v, %v", errs, err)
	}
	if u.ID == 0 {
		t.Error("user has no ID")
	}
	if u.PasswordHash == "secret" {
		t.Error("password stored in plaintext")
	}

	stored, err := s.FindByUsername(ctx, "jugurtha")
	if err != nil {
		t.Fatalf("FindByUsername() error = %v", err)
	}
	if err := VerifyPassword(stored, "secret"); err != nil {
		t.Errorf("VerifyPassword() error = %v", err)
	}
	if err := VerifyPassword(stored, "wrong"); err == nil {
		t.Error("VerifyPassword() accepted a wrong password")
	}

	_, errs, err = s.Register(ctx, form)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(FieldErrors{"username_error": MsgUsernameUsed}, errs); diff != "" {
		t.Errorf("duplicate Register() mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreCreateDuplicate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, &model.User{Username: "dup", PasswordHash: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, &model.User{Username: "dup", PasswordHash: "y"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Create() error = %v, want %v", err, ErrUsernameTaken)
	}
}

func TestFindByUsernameMissing(t *testing.T) {
	s := setupStore(t)

	if _, err := s.FindByUsername(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByUsername() error = %v, want %v", err, ErrNotFound)
	}
}

func setupHandler(t *testing.T) (*Store, chi.Router) {
	t.Helper()

	pages, err := page.New(0)
	if err != nil {
		t.Fatal(err)
	}

	s := setupStore(t)
	h := NewHandler(s, pages, metrics.New("test"))

	r := chi.NewRouter()
	r.Get("/blog/signup", h.SignupPage)
	r.Post("/blog/signup", h.Signup)
	r.Get("/blog/welcome", h.Welcome)
	r.Post("/api/users", h.CreateUser)

	return s, r
}

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return r
}

func TestSignupHandlerMismatch(t *testing.T) {
	s, r := setupHandler(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, postForm("/blog/signup", url.Values{
		"username": {"jugurtha"},
		"password": {"hunter22"},
		"verify":   {"hunter23"},
		"email":    {"j@example.com"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, MsgVerify) {
		t.Error("verify error missing")
	}
	if !strings.Contains(body, `value="jugurtha"`) || !strings.Contains(body, `value="j@example.com"`) {
		t.Error("username or email not echoed")
	}
	if strings.Contains(body, "hunter22") {
		t.Error("password echoed back")
	}

	if _, err := s.FindByUsername(context.Background(), "jugurtha"); !errors.Is(err, ErrNotFound) {
		t.Errorf("user stored despite errors: %v", err)
	}
}

func TestSignupHandlerSuccess(t *testing.T) {
	_, r := setupHandler(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, postForm("/blog/signup", url.Values{
		"username": {"jugurtha"},
		"password": {"hunter22"},
		"verify":   {"hunter22"},
	}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/blog/welcome?username=jugurtha" {
		t.Fatalf("Location = %q", loc)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, loc, nil))
	if !strings.Contains(rec.Body.String(), "Welcome, jugurtha!") {
		t.Errorf("welcome page:\n%s", rec.Body.String())
	}
}

func TestWelcomeRejectsBadUsername(t *testing.T) {
	_, r := setupHandler(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/welcome?username=%3Cb%3E", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", rec.Code)
	}
}

func TestCreateUserAPI(t *testing.T) {
	_, r := setupHandler(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		return rec
	}

	rec := post(`{"username":"jugurtha","password":"secret","verify":"secret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Errorf("password leaked: %s", rec.Body.String())
	}

	if rec := post(`{"username":"jugurtha","password":"secret","verify":"secret"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d", rec.Code)
	}
	if rec := post(`{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d", rec.Code)
	}
}
