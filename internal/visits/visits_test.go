package visits

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/blog", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: value})
	}

	return r
}

func TestNextUnsigned(t *testing.T) {
	c := NewCounter("")

	tests := []struct {
		name   string
		cookie string
		want   int
		err    error
	}{
		{"absent", "", 1, nil},
		{"count", "4", 5, nil},
		{"zero", "0", 1, nil},
		{"trailing tag ignored", "4|deadbeef", 5, nil},
		{"garbage", "lots", 1, ErrMalformed},
		{"negative", "-3", 1, ErrMalformed},
		{"empty count", "|abc", 1, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Next(requestWithCookie(tt.cookie))
			if got != tt.want {
				t.Errorf("Next() = %d, want %d", got, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("Next() error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestSignedRoundTrip(t *testing.T) {
	c := NewCounter("s3cret")

	value := c.Encode(41)
	if !strings.HasPrefix(value, "41|") {
		t.Fatalf("Encode() = %q, want 41|<tag>", value)
	}

	got, err := c.Next(requestWithCookie(value))
	if err != nil || got != 42 {
		t.Fatalf("Next() = %d, %v; want 42, nil", got, err)
	}
}

func TestSignedRejectsTampering(t *testing.T) {
	c := NewCounter("s3cret")
	_, tag, _ := strings.Cut(c.Encode(2), separator)

	tests := []struct {
		name   string
		cookie string
	}{
		{"bumped count", "99|" + tag},
		{"missing tag", "2"},
		{"foreign key", NewCounter("other").Encode(2)},
		{"empty tag", "2|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Next(requestWithCookie(tt.cookie))
			if got != 1 {
				t.Errorf("Next() = %d, want 1", got)
			}
			if !errors.Is(err, ErrSignature) {
				t.Errorf("Next() error = %v, want %v", err, ErrSignature)
			}
		})
	}
}

func TestCookie(t *testing.T) {
	c := NewCounter("")
	cookie := c.Cookie(7)

	if cookie.Name != CookieName || cookie.Value != "7" || cookie.Path != "/" {
		t.Fatalf("Cookie() = %+v", cookie)
	}
	if c.Signed() {
		t.Error("Signed() = true for empty secret")
	}
}

func TestNextStopsAtMaxInt(t *testing.T) {
	for _, secret := range []string{"", "s3cret"} {
		c := NewCounter(secret)

		got, err := c.Next(requestWithCookie(c.Encode(math.MaxInt)))
		if err != nil || got != math.MaxInt {
			t.Fatalf("signed=%v: Next() = %d, %v; want %d, nil", c.Signed(), got, err, math.MaxInt)
		}

		// the cookie written back must read back
		n, err := c.Decode(c.Cookie(got).Value)
		if err != nil || n != math.MaxInt {
			t.Errorf("signed=%v: Decode() = %d, %v", c.Signed(), n, err)
		}
	}
}
