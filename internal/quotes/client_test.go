package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestToday(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"q":"Well begun is half done.","a":"Aristotle","h":"<p>...</p>"}]`))
	}))
	defer srv.Close()

	q, err := NewClient(srv.URL).Today(context.Background())
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if q.Text != "Well begun is half done." || q.Author != "Aristotle" {
		t.Fatalf("quote = %+v", q)
	}
}

func TestTodayErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusTooManyRequests, "slow down"},
		{"empty list", http.StatusOK, "[]"},
		{"bad json", http.StatusOK, "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewClient(srv.URL).Today(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
