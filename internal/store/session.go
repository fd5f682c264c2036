package store

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/navigator"
	"github.com/spigell/uni-navigator/internal/storage"
	"github.com/spigell/uni-navigator/internal/tracker"
)

// Login authenticates and merges server state into local state.
func (s *Store) Login(ctx context.Context, email, password string) (Snapshot, error) {
	if s.remote == nil {
		return Snapshot{}, fmt.Errorf("login: no server configured")
	}
	session, err := s.remote.Login(ctx, email, password)
	if err != nil {
		return Snapshot{}, err
	}
	return s.authenticate(ctx, session)
}

// Register creates an account and merges server state into local state.
func (s *Store) Register(ctx context.Context, name, email, password string) (Snapshot, error) {
	if s.remote == nil {
		return Snapshot{}, fmt.Errorf("register: no server configured")
	}
	session, err := s.remote.Register(ctx, name, email, password)
	if err != nil {
		return Snapshot{}, err
	}
	return s.authenticate(ctx, session)
}

// Logout pushes pending changes, ends the server session and clears the
// profile, favorites, comparison list and applications. Server failures are
// logged; local state is cleared regardless.
func (s *Store) Logout(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	token := s.state.Token
	s.mu.Unlock()

	if token != "" && s.remote != nil {
		if err := s.Flush(ctx); err != nil {
			s.logger.Warn("pending changes were not pushed before logout", zap.Error(err))
		}
		if err := s.remote.Logout(ctx, token); err != nil {
			s.logger.Warn("server logout failed", zap.Error(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{
		storage.KeyAuthToken,
		storage.KeyProfile,
		storage.KeyFavorites,
		storage.KeyComparison,
		storage.KeyApplications,
	} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return s.state.clone(), fmt.Errorf("clearing %s: %w", key, err)
		}
	}

	s.state = Snapshot{}
	return s.state.clone(), nil
}

// authenticate switches to the given session and merges state. Lists are
// unioned with local entries first; a local profile wins over the server's.
// Whatever differs from the server afterwards is pushed back.
func (s *Store) authenticate(ctx context.Context, session *navigator.Session) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := session.Token
	if err := s.kv.Set(ctx, storage.KeyAuthToken, token); err != nil {
		return Snapshot{}, err
	}

	user := session.User
	next := s.state.clone()
	next.State = Authenticated
	next.Token = token
	next.User = &user

	log := s.logger.With(zap.String("user_id", user.ID))
	var pushes []func()

	if server, err := s.remote.GetFavorites(ctx, token); err != nil {
		log.Warn("loading favorites from server failed", zap.Error(err))
	} else {
		next.Favorites = union(next.Favorites, server, 0)
		if !slices.Equal(next.Favorites, server) {
			pushes = append(pushes, func() { s.pushFavorites(next) })
		}
	}

	if server, err := s.remote.GetComparison(ctx, token); err != nil {
		log.Warn("loading comparison from server failed", zap.Error(err))
	} else {
		next.Comparison = union(next.Comparison, server, MaxComparison)
		if !slices.Equal(next.Comparison, server) {
			pushes = append(pushes, func() { s.pushComparison(next) })
		}
	}

	if next.Profile != nil {
		pushes = append(pushes, func() { s.pushProfile(next) })
	} else if p, found, err := s.remote.GetProfile(ctx, token); err != nil {
		log.Warn("loading profile from server failed", zap.Error(err))
	} else if found && !p.IsEmpty() {
		if err := p.Validate(); err != nil {
			log.Warn("ignoring invalid server profile", zap.Error(err))
		} else {
			next.Profile = &p
		}
	}

	if server, err := s.remote.GetApplications(ctx, token); err != nil {
		log.Warn("loading applications from server failed", zap.Error(err))
	} else {
		next.Applications = mergeApplications(next.Applications, server)
		if !slices.Equal(next.Applications, server) {
			pushes = append(pushes, func() { s.pushApplications(next) })
		}
	}

	if err := s.persistAll(ctx, next); err != nil {
		return Snapshot{}, err
	}

	s.state = next
	for _, push := range pushes {
		push()
	}

	log.Info("session authenticated", zap.Int("favorites", len(next.Favorites)), zap.Int("comparison", len(next.Comparison)))
	return s.state.clone(), nil
}

// union returns local followed by server entries not already present,
// truncated to limit when limit is positive.
func union(local, server []string, limit int) []string {
	out := make([]string, 0, len(local)+len(server))
	for _, list := range [][]string{local, server} {
		for _, id := range list {
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func mergeApplications(local, server []tracker.Application) []tracker.Application {
	out := slices.Clone(local)
	for _, app := range server {
		if !slices.ContainsFunc(out, func(a tracker.Application) bool { return a.ID == app.ID }) {
			out = append(out, app)
		}
	}
	if out == nil {
		out = []tracker.Application{}
	}
	return out
}

func (s *Store) persistAll(ctx context.Context, snap Snapshot) error {
	if snap.Profile != nil {
		if err := storage.SetJSON(ctx, s.kv, storage.KeyProfile, snap.Profile); err != nil {
			return err
		}
	}
	if err := storage.SetJSON(ctx, s.kv, storage.KeyFavorites, nonNil(snap.Favorites)); err != nil {
		return err
	}
	if err := storage.SetJSON(ctx, s.kv, storage.KeyComparison, nonNil(snap.Comparison)); err != nil {
		return err
	}
	return storage.SetJSON(ctx, s.kv, storage.KeyApplications, mergeApplications(snap.Applications, nil))
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
