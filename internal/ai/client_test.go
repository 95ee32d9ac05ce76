package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyzeParsesCompletion(t *testing.T) {
	srv := completionServer(t, `{"sentiment":"positive","themes":["growth"],"suggestions":["vary sentence length","add detail"]}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	got, err := c.Analyze(context.Background(), "today was a good day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Analysis{
		Sentiment:   "positive",
		Themes:      []string{"growth"},
		Suggestions: []string{"vary sentence length", "add detail"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAnalyzeStripsMarkdownFences(t *testing.T) {
	srv := completionServer(t, "```json\n{\"sentiment\":\"neutral\",\"themes\":[],\"suggestions\":[]}\n```")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	got, err := c.Analyze(context.Background(), "entry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Sentiment != "neutral" {
		t.Fatalf("got sentiment %q", got.Sentiment)
	}
}

func TestAnalyzeRejectsBadCompletions(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"not json", "I feel great about this entry!"},
		{"missing sentiment", `{"themes":["a"],"suggestions":["b"]}`},
		{"wrong types", `{"sentiment":"ok","themes":"growth","suggestions":[]}`},
	}
	for _, tc := range cases {
		srv := completionServer(t, tc.content)
		c := NewClient(srv.URL, "test-key", "")
		_, err := c.Analyze(context.Background(), "entry")
		srv.Close()
		if !errors.Is(err, ErrBadCompletion) {
			t.Fatalf("%s: got %v, want ErrBadCompletion", tc.name, err)
		}
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	_, err := c.Analyze(context.Background(), "entry")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("got %v, want ErrUpstream", err)
	}
}
