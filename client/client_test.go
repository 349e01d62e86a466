//go:build !integration
// +build !integration

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/gaefun/internal/database"
	"github.com/SergeyParamoshkin/gaefun/internal/metrics"
	"github.com/SergeyParamoshkin/gaefun/internal/server"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, "file::memory:", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	r, err := server.NewRouter(server.Options{
		DB:       db,
		Logger:   zap.NewNop().Sugar(),
		Counters: metrics.New("test"),
	})
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &Client{Addr: srv.URL, Client: *srv.Client()}
}

func TestPingLocal(t *testing.T) {
	c := newTestClient(t)

	if s, err := c.Ping(); err != nil || s != "pong" {
		t.Fatalf("Ping() = %q, %v", s, err)
	}
}

func TestArticles(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	first, err := c.CreateArticle(ctx, "Hi", "first")
	if err != nil {
		t.Fatalf("CreateArticle() error = %v", err)
	}
	second, err := c.CreateArticle(ctx, "sup", "second")
	if err != nil {
		t.Fatalf("CreateArticle() error = %v", err)
	}

	got, err := c.GetArticle(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetArticle() error = %v", err)
	}
	ignoreCreated := cmpopts.IgnoreFields(Article{}, "Created")
	if diff := cmp.Diff(first, got, ignoreCreated); diff != "" {
		t.Errorf("GetArticle() mismatch (-want +got):\n%s", diff)
	}

	list, err := c.ListArticles(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListArticles() error = %v", err)
	}
	want := []Article{*second, *first}
	if diff := cmp.Diff(want, list, ignoreCreated); diff != "" {
		t.Errorf("ListArticles() mismatch (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	var se *StatusError

	_, err := c.GetArticle(ctx, 404)
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("GetArticle() error = %v, want 404", err)
	}

	_, err = c.CreateArticle(ctx, "", "body")
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		t.Errorf("CreateArticle() error = %v, want 400", err)
	}
}
