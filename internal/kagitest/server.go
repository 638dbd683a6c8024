package kagitest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tidwall/sjson"
)

// Server is an in-process stand-in for the Kagi API. It enforces the
// Bot token scheme and answers every operation with fixture payloads
// stamped with fresh envelope metadata.
type Server struct {
	// URL is the base URL to point a client at.
	URL string

	// Token is the API token the server accepts. Defaults to "test-token".
	Token string
	// Node is reported as meta.node on every response.
	Node string
	// Balance is reported as meta.api_balance on every response.
	Balance float64
}

// Fixture payloads modeled on captured API responses. Envelope metadata
// is stamped in per request.
const (
	fastGPTBody = `{"data": {
		"output": "Go is an open source programming language that makes it simple to build secure, scalable systems. [1]",
		"tokens": 1036,
		"references": [
			{"title": "The Go Programming Language", "snippet": "Go is an <b>open source</b> programming language", "url": "https://go.dev/"},
			{"title": "Go (programming language) - Wikipedia", "snippet": "Go is a statically typed, compiled language", "url": "https://en.wikipedia.org/wiki/Go_(programming_language)"}
		]
	}}`

	enrichBody = `{"data": [
		{"t": 0, "rank": 0, "url": "https://go.dev/blog/examples", "title": "Testable Examples in Go", "snippet": "Godoc examples are snippets of Go code", "published": "2023-11-05T00:00:00"},
		{"t": 0, "rank": 1, "url": "https://research.swtch.com/interfaces", "title": "Go Data Structures: Interfaces", "snippet": "How interfaces work in Go", "published": "2009-12-01T00:00:00"}
	]}`

	summarizeBody = `{"data": {
		"output": "The page describes the Go programming language and its standard toolchain.",
		"tokens": 4254
	}}`

	errorBody = `{"error": [{"code": 0, "msg": "", "ref": null}]}`
)

// New starts a fake API server and tears it down when the test ends.
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		Token:   "test-token",
		Node:    "us-east",
		Balance: 12.5,
	}

	r := chi.NewRouter()
	r.Use(s.auth)
	r.Post("/v0/fastgpt", func(w http.ResponseWriter, _ *http.Request) {
		s.write(w, http.StatusOK, fastGPTBody)
	})
	r.Get("/v0/enrich/web", s.enrich)
	r.Get("/v0/enrich/news", s.enrich)
	r.Post("/v0/summarize", func(w http.ResponseWriter, _ *http.Request) {
		s.write(w, http.StatusOK, summarizeBody)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	s.URL = srv.URL
	return s
}

// auth rejects requests that do not carry the Bot token scheme, the way
// the real service does.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bot "+s.Token {
			s.writeError(w, http.StatusUnauthorized, 1000, "Invalid API token.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) enrich(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("q") == "" {
		s.writeError(w, http.StatusBadRequest, 1, "Missing query.")
		return
	}
	s.write(w, http.StatusOK, enrichBody)
}

// write stamps fresh envelope metadata into the fixture and sends it.
func (s *Server) write(w http.ResponseWriter, status int, body string) {
	body, _ = sjson.Set(body, "meta.id", uuid.NewString())
	body, _ = sjson.Set(body, "meta.node", s.Node)
	body, _ = sjson.Set(body, "meta.ms", 0)
	body, _ = sjson.Set(body, "meta.api_balance", s.Balance)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *Server) writeError(w http.ResponseWriter, status, code int, msg string) {
	body, _ := sjson.Set(errorBody, "error.0.code", code)
	body, _ = sjson.Set(body, "error.0.msg", msg)
	s.write(w, status, body)
}
