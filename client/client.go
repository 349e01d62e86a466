package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Client talks to the blog's JSON API.
type Client struct {
	http.Client
	Addr string
}

// Article as returned by the API.
type Article struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Created   string `json:"created"`
	Permalink string `json:"permalink"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string `json:"status"`
	Detail string `json:"error"`
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Code, e.Status, e.Detail)
	}

	return fmt.Sprintf("%d %s", e.Code, e.Status)
}

func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest("GET", c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

// ListArticles returns up to limit articles after offset, newest first.
func (c *Client) ListArticles(ctx context.Context, limit, offset int) ([]Article, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	path := "/api/articles"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var articles []Article
	if err := c.do(ctx, http.MethodGet, path, nil, &articles); err != nil {
		return nil, err
	}

	return articles, nil
}

func (c *Client) GetArticle(ctx context.Context, id uint64) (*Article, error) {
	var a Article
	if err := c.do(ctx, http.MethodGet, "/api/articles/"+strconv.FormatUint(id, 10), nil, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (c *Client) CreateArticle(ctx context.Context, title, body string) (*Article, error) {
	in := map[string]string{"title": title, "body": body}

	var a Article
	if err := c.do(ctx, http.MethodPost, "/api/articles", in, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(se)
		if se.Status == "" {
			se.Status = http.StatusText(resp.StatusCode)
		}

		return se
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
