// Package store owns the user's profile, favorites, comparison list and
// applications. Mutators update local state synchronously, persist it and
// queue a best-effort push to the server when the session is authenticated.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/navigator"
	"github.com/spigell/uni-navigator/internal/profile"
	"github.com/spigell/uni-navigator/internal/storage"
	"github.com/spigell/uni-navigator/internal/syncqueue"
	"github.com/spigell/uni-navigator/internal/tracker"
)

// MaxComparison is the comparison list capacity.
const MaxComparison = 3

// Synchronized resources.
const (
	ResourceProfile      = "profile"
	ResourceFavorites    = "favorites"
	ResourceComparison   = "comparison"
	ResourceApplications = "applications"
)

var ErrNotAuthenticated = errors.New("not logged in")

// Remote is the server side of the session and the synchronized state.
type Remote interface {
	Login(ctx context.Context, email, password string) (*navigator.Session, error)
	Register(ctx context.Context, name, email, password string) (*navigator.Session, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*navigator.User, error)

	GetProfile(ctx context.Context, token string) (profile.Profile, bool, error)
	PutProfile(ctx context.Context, token string, p profile.Profile) error
	GetFavorites(ctx context.Context, token string) ([]string, error)
	SaveFavorites(ctx context.Context, token string, ids []string) error
	GetComparison(ctx context.Context, token string) ([]string, error)
	SaveComparison(ctx context.Context, token string, ids []string) error
	GetApplications(ctx context.Context, token string) ([]tracker.Application, error)
	SaveApplications(ctx context.Context, token string, apps []tracker.Application) error
}

// SessionState is Anonymous until a login, registration or restored token
// succeeds.
type SessionState int

const (
	Anonymous SessionState = iota
	Authenticated
)

func (s SessionState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Snapshot is an immutable copy of the store state.
type Snapshot struct {
	State        SessionState
	User         *navigator.User
	Token        string
	Profile      *profile.Profile
	Favorites    []string
	Comparison   []string
	Applications []tracker.Application
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Profile != nil {
		p := s.Profile.Clone()
		out.Profile = &p
	}
	out.Favorites = slices.Clone(s.Favorites)
	out.Comparison = slices.Clone(s.Comparison)
	out.Applications = slices.Clone(s.Applications)
	return out
}

// IsFavorite reports whether universityID is a favorite.
func (s Snapshot) IsFavorite(universityID string) bool {
	return slices.Contains(s.Favorites, universityID)
}

// InComparison reports whether compositeID is being compared.
func (s Snapshot) InComparison(compositeID string) bool {
	return slices.Contains(s.Comparison, compositeID)
}

// Store is safe for concurrent use.
type Store struct {
	kv     storage.KV
	remote Remote
	queues *syncqueue.Group
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	state Snapshot
}

type Option func(*Store)

// WithClock replaces time.Now for application dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an anonymous, empty store. remote and queues may be nil for an
// offline store.
func New(kv storage.KV, remote Remote, queues *syncqueue.Group, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:     kv,
		remote: remote,
		queues: queues,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Flush waits for queued pushes.
func (s *Store) Flush(ctx context.Context) error {
	if s.queues == nil {
		return nil
	}
	return s.queues.Flush(ctx)
}

// Close drops queued pushes.
func (s *Store) Close() {
	if s.queues != nil {
		s.queues.Close()
	}
}

// Restore loads persisted state. A persisted token is verified with the
// server; an invalid token is dropped and the session stays anonymous.
// Corrupt persisted values are treated as absent.
func (s *Store) Restore(ctx context.Context) (Snapshot, error) {
	loaded, token, err := s.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.state = loaded
	s.mu.Unlock()

	if token == "" {
		return s.Snapshot(), nil
	}
	if s.remote == nil {
		s.logger.Debug("no remote configured, keeping session anonymous")
		return s.Snapshot(), nil
	}

	user, err := s.remote.Me(ctx, token)
	if err != nil {
		s.logger.Info("stored session is no longer valid, dropping token", zap.Error(err))
		if err := s.kv.Delete(ctx, storage.KeyAuthToken); err != nil {
			return Snapshot{}, err
		}
		return s.Snapshot(), nil
	}

	return s.authenticate(ctx, &navigator.Session{Token: token, User: *user})
}

func (s *Store) load(ctx context.Context) (Snapshot, string, error) {
	var snap Snapshot

	token, _, err := s.kv.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		return snap, "", err
	}

	var p profile.Profile
	found, err := s.getJSON(ctx, storage.KeyProfile, &p)
	if err != nil {
		return snap, "", err
	}
	if found && !p.IsEmpty() && p.Validate() == nil {
		p = p.WithDefaults()
		snap.Profile = &p
	}

	var favorites, comparison []string
	if found, err := s.getJSON(ctx, storage.KeyFavorites, &favorites); err != nil {
		return snap, "", err
	} else if found {
		snap.Favorites = favorites
	}
	if found, err := s.getJSON(ctx, storage.KeyComparison, &comparison); err != nil {
		return snap, "", err
	} else if found {
		snap.Comparison = comparison
	}
	if len(snap.Comparison) > MaxComparison {
		snap.Comparison = snap.Comparison[:MaxComparison]
	}

	var apps []tracker.Application
	if found, err := s.getJSON(ctx, storage.KeyApplications, &apps); err != nil {
		return snap, "", err
	} else if found {
		snap.Applications = apps
	}

	return snap, token, nil
}

// getJSON reads key, treating corrupt values as absent.
func (s *Store) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	found, err := storage.GetJSON(ctx, s.kv, key, dst)
	if errors.Is(err, storage.ErrCorrupt) {
		s.logger.Warn("ignoring corrupt persisted value", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return found, err
}
