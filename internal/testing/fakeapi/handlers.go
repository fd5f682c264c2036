package fakeapi

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func publicUser(a *Account) map[string]string {
	return map[string]string{"id": a.ID, "email": a.Email, "name": a.Name}
}

func (s *Server) issueToken(email string) string {
	token := uuid.NewString()
	s.tokens[token] = email
	return token
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[req.Email]; exists {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "User already exists"})
		return
	}
	acc := &Account{ID: uuid.NewString(), Name: req.Name, Email: req.Email, Password: req.Password}
	s.accounts[req.Email] = acc

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Registered",
		"user":    publicUser(acc),
		"token":   s.issueToken(req.Email),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[req.Email]
	if !ok || acc.Password != req.Password {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged in",
		"user":    publicUser(acc),
		"token":   s.issueToken(req.Email),
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delete(s.tokens, bearer(r))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": publicUser(accountFrom(r))})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p any
	if acc := accountFrom(r); acc.Profile != nil {
		p = acc.Profile
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": p})
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	var p map[string]any
	if err := decode(r, &p); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := accountFrom(r)
	if acc.Profile == nil {
		acc.Profile = make(map[string]any)
	}
	for k, v := range p {
		if v != nil {
			acc.Profile[k] = v
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": acc.Profile})
}

func (s *Server) list(acc *Account, key string) *[]string {
	if key == "favorites" {
		return &acc.Favorites
	}
	return &acc.Comparison
}

func (s *Server) getList(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		items := slices.Clone(*s.list(accountFrom(r), key))
		if items == nil {
			items = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, key: items})
	}
}

func (s *Server) saveList(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req map[string][]string
		if err := decode(r, &req); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		*s.list(accountFrom(r), key) = slices.Clone(req[key])
		writeJSON(w, http.StatusOK, map[string]any{"success": true, key: req[key]})
	}
}

func (s *Server) getApplications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := accountFrom(r).Applications
	if apps == nil {
		apps = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "applications": apps})
}

func (s *Server) saveApplications(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Applications []map[string]any `json:"applications"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accountFrom(r).Applications = req.Applications
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "applications": req.Applications})
}

func (s *Server) getRoadmap(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := accountFrom(r).Roadmap
	if items == nil {
		items = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "roadmap": items})
}

func (s *Server) createRoadmap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"user_id"`
		UniversityID string `json:"university_id"`
		ProgramID    string `json:"program_id"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := accountFrom(r)
	if req.UserID != acc.ID {
		writeDetail(w, http.StatusForbidden, "User mismatch")
		return
	}

	acc.Roadmap = []map[string]any{
		{
			"id":                 "deadline",
			"title":              "Подать документы: " + req.ProgramID,
			"description":        "Финальная подача в " + req.UniversityID,
			"due_date":           "2026-06-30",
			"priority":           1,
			"notify_before_days": 7,
			"subtasks":           []any{},
		},
		{
			"title":              "Подготовка к IELTS",
			"description":        "Пробный тест и регистрация",
			"due_date":           "2026-02-01",
			"priority":           2,
			"notify_before_days": 14,
			"subtasks": []map[string]any{
				{"title": "Сдать пробный тест", "due_date": "2026-02-08"},
			},
		},
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "roadmap": acc.Roadmap})
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decode(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	simulate := r.URL.Query().Get("simulate") == "true"
	recs := []map[string]any{}
	if s.Recommend != nil {
		recs = s.Recommend(body, simulate)
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (s *Server) argumentation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	acc := *accountFrom(r)
	argue := s.Argue
	s.mu.Unlock()

	if argue == nil {
		writeDetail(w, http.StatusNotFound, "University or program not found")
		return
	}
	payload := argue(&acc, id)
	if payload == nil {
		writeDetail(w, http.StatusNotFound, "University or program not found")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
