package store

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/profile"
	"github.com/spigell/uni-navigator/internal/storage"
	"github.com/spigell/uni-navigator/internal/tracker"
)

// SetProfile validates and replaces the whole profile. Invalid profiles are
// rejected before any state changes.
func (s *Store) SetProfile(ctx context.Context, p profile.Profile) (Snapshot, error) {
	if err := p.Validate(); err != nil {
		return s.Snapshot(), err
	}
	p = p.WithDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := storage.SetJSON(ctx, s.kv, storage.KeyProfile, p); err != nil {
		return s.state.clone(), err
	}
	s.state.Profile = &p
	s.pushProfile(s.state)

	return s.state.clone(), nil
}

// ClearProfile removes the local profile. Favorites and comparison are kept
// and the server copy is left untouched.
func (s *Store) ClearProfile(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, storage.KeyProfile); err != nil {
		return s.state.clone(), err
	}
	s.state.Profile = nil
	return s.state.clone(), nil
}

// LoadProfileFromServer replaces the local profile with the server copy.
// It reports false when the server has none.
func (s *Store) LoadProfileFromServer(ctx context.Context) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.State != Authenticated || s.remote == nil {
		return s.state.clone(), false, ErrNotAuthenticated
	}

	p, found, err := s.remote.GetProfile(ctx, s.state.Token)
	if err != nil {
		return s.state.clone(), false, err
	}
	if !found || p.IsEmpty() {
		return s.state.clone(), false, nil
	}
	if err := p.Validate(); err != nil {
		s.logger.Warn("ignoring invalid server profile", zap.Error(err))
		return s.state.clone(), false, fmt.Errorf("server profile: %w", err)
	}

	if err := storage.SetJSON(ctx, s.kv, storage.KeyProfile, p); err != nil {
		return s.state.clone(), false, err
	}
	s.state.Profile = &p
	return s.state.clone(), true, nil
}

// AddToComparison appends a "<university>-<program>" id. Duplicates and
// additions beyond MaxComparison leave the list unchanged.
func (s *Store) AddToComparison(ctx context.Context, compositeID string) (Snapshot, error) {
	if _, _, err := catalog.SplitCompositeID(compositeID); err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Comparison
	if len(current) >= MaxComparison || slices.Contains(current, compositeID) {
		s.logger.Debug("comparison unchanged", zap.String("id", compositeID), zap.Int("size", len(current)))
		return s.state.clone(), nil
	}

	return s.setComparison(ctx, append(slices.Clone(current), compositeID))
}

// RemoveFromComparison removes compositeID if present.
func (s *Store) RemoveFromComparison(ctx context.Context, compositeID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.state.Comparison), func(id string) bool { return id == compositeID })
	return s.setComparison(ctx, next)
}

// ClearComparison empties the comparison list.
func (s *Store) ClearComparison(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setComparison(ctx, []string{})
}

func (s *Store) setComparison(ctx context.Context, next []string) (Snapshot, error) {
	next = nonNil(next)
	if err := storage.SetJSON(ctx, s.kv, storage.KeyComparison, next); err != nil {
		return s.state.clone(), err
	}
	s.state.Comparison = next
	s.pushComparison(s.state)
	return s.state.clone(), nil
}

// AddFavorite adds universityID if absent.
func (s *Store) AddFavorite(ctx context.Context, universityID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.state.Favorites, universityID) {
		return s.state.clone(), nil
	}
	return s.setFavorites(ctx, append(slices.Clone(s.state.Favorites), universityID))
}

// RemoveFavorite removes universityID if present.
func (s *Store) RemoveFavorite(ctx context.Context, universityID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.state.Favorites), func(id string) bool { return id == universityID })
	return s.setFavorites(ctx, next)
}

// ToggleFavorite adds universityID if absent and removes it otherwise.
func (s *Store) ToggleFavorite(ctx context.Context, universityID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state.Favorites
	if slices.Contains(current, universityID) {
		return s.setFavorites(ctx, slices.DeleteFunc(slices.Clone(current), func(id string) bool { return id == universityID }))
	}
	return s.setFavorites(ctx, append(slices.Clone(current), universityID))
}

func (s *Store) setFavorites(ctx context.Context, next []string) (Snapshot, error) {
	next = nonNil(next)
	if err := storage.SetJSON(ctx, s.kv, storage.KeyFavorites, next); err != nil {
		return s.state.clone(), err
	}
	s.state.Favorites = next
	s.pushFavorites(s.state)
	return s.state.clone(), nil
}

// AddApplication starts tracking a draft application.
func (s *Store) AddApplication(ctx context.Context, university, program string) (tracker.Application, Snapshot, error) {
	app, err := tracker.New(university, program, s.now())
	if err != nil {
		return tracker.Application{}, s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.setApplications(ctx, tracker.Add(s.state.Applications, app))
	return app, snap, err
}

// SetApplicationStatus updates the status of application id.
func (s *Store) SetApplicationStatus(ctx context.Context, id string, status tracker.Status) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := tracker.SetStatus(s.state.Applications, id, status)
	if err != nil {
		return s.state.clone(), err
	}
	return s.setApplications(ctx, next)
}

// RemoveApplication stops tracking application id.
func (s *Store) RemoveApplication(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := tracker.Remove(s.state.Applications, id)
	if err != nil {
		return s.state.clone(), err
	}
	return s.setApplications(ctx, next)
}

func (s *Store) setApplications(ctx context.Context, next []tracker.Application) (Snapshot, error) {
	if next == nil {
		next = []tracker.Application{}
	}
	if err := storage.SetJSON(ctx, s.kv, storage.KeyApplications, next); err != nil {
		return s.state.clone(), fmt.Errorf("saving applications: %w", err)
	}
	s.state.Applications = next
	s.pushApplications(s.state)
	return s.state.clone(), nil
}
