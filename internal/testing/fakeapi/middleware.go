package fakeapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
)

type ctxKey struct{}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, "/api"),
			Query:  r.URL.RawQuery,
			Token:  bearer(r),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")

		s.mu.Lock()
		f, ok := s.failures[key]
		status := 0
		if ok && f.left > 0 {
			f.left--
			status = f.status
		}
		s.mu.Unlock()

		if status != 0 {
			writeDetail(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" {
			writeDetail(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		s.mu.Lock()
		email, ok := s.tokens[token]
		var acc *Account
		if ok {
			acc = s.accounts[email]
		}
		s.mu.Unlock()

		if acc == nil {
			writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, acc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountFrom(r *http.Request) *Account {
	return r.Context().Value(ctxKey{}).(*Account)
}
