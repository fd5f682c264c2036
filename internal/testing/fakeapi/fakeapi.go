// Package fakeapi is an in-memory navigator backend for tests.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Call is a recorded request.
type Call struct {
	Method string
	Path   string
	Query  string
	Token  string
	Body   []byte
}

// Account is a registered user together with the state stored for it.
type Account struct {
	ID           string
	Name         string
	Email        string
	Password     string
	Profile      map[string]any
	Favorites    []string
	Comparison   []string
	Applications []map[string]any
	Roadmap      []map[string]any
}

type failure struct {
	status int
	left   int
}

// Server is a chi router over in-memory state wrapped in httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*Account // by email
	tokens   map[string]string   // token -> email
	calls    []Call
	failures map[string]*failure // "METHOD /path"

	// Recommend produces the recommendation list for a request body.
	Recommend func(body map[string]any, simulate bool) []map[string]any
	// Argue produces the argumentation payload, or nil for 404.
	Argue func(account *Account, compositeID string) map[string]any
}

// New starts a server. Call Close when done.
func New() *Server {
	s := &Server{
		accounts: make(map[string]*Account),
		tokens:   make(map[string]string),
		failures: make(map[string]*failure),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// BaseURL is the API root to configure clients with.
func (s *Server) BaseURL() string { return s.URL + "/api" }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Post("/recommendations", s.recommendations)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticated)
			r.Post("/auth/logout", s.logout)
			r.Get("/auth/me", s.me)
			r.Get("/user/profile", s.getProfile)
			r.Put("/user/profile", s.putProfile)
			r.Get("/user/favorites", s.getList("favorites"))
			r.Post("/user/favorites", s.saveList("favorites"))
			r.Get("/user/comparison", s.getList("comparison_list"))
			r.Post("/user/comparison", s.saveList("comparison_list"))
			r.Get("/user/applications", s.getApplications)
			r.Post("/user/applications", s.saveApplications)
			r.Get("/roadmap", s.getRoadmap)
			r.Post("/roadmap", s.createRoadmap)
			r.Get("/argumentation/{id}", s.argumentation)
		})
	})

	return r
}

// AddAccount registers a user directly and returns a valid token for it.
func (s *Server) AddAccount(a Account) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	acc := a
	s.accounts[a.Email] = &acc
	token := uuid.NewString()
	s.tokens[token] = a.Email
	return token
}

// Account returns a copy of the stored account.
func (s *Server) Account(email string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// Fail makes the next n requests to method+path answer with status.
func (s *Server) Fail(method, path string, status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = &failure{status: status, left: n}
}

// Calls returns recorded calls, optionally filtered by "METHOD /path".
func (s *Server) Calls(filter ...string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(filter) == 0 {
		return append([]Call(nil), s.calls...)
	}
	var out []Call
	for _, c := range s.calls {
		for _, f := range filter {
			if c.Method+" "+c.Path == f {
				out = append(out, c)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func bearer(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return token
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}
