package store

import (
	"context"
	"slices"

	"github.com/spigell/uni-navigator/internal/tracker"
)

// Push helpers capture the token and a copy of the state at call time, so a
// queued push never picks up a later session or later edits.

func (s *Store) canPush(snap Snapshot) bool {
	return snap.State == Authenticated && snap.Token != "" && s.remote != nil && s.queues != nil
}

func (s *Store) pushProfile(snap Snapshot) {
	if !s.canPush(snap) || snap.Profile == nil {
		return
	}
	token, p := snap.Token, snap.Profile.Clone()
	s.queues.Submit(ResourceProfile, func(ctx context.Context) error {
		return s.remote.PutProfile(ctx, token, p)
	})
}

func (s *Store) pushFavorites(snap Snapshot) {
	if !s.canPush(snap) {
		return
	}
	token, ids := snap.Token, nonNil(slices.Clone(snap.Favorites))
	s.queues.Submit(ResourceFavorites, func(ctx context.Context) error {
		return s.remote.SaveFavorites(ctx, token, ids)
	})
}

func (s *Store) pushComparison(snap Snapshot) {
	if !s.canPush(snap) {
		return
	}
	token, ids := snap.Token, nonNil(slices.Clone(snap.Comparison))
	s.queues.Submit(ResourceComparison, func(ctx context.Context) error {
		return s.remote.SaveComparison(ctx, token, ids)
	})
}

func (s *Store) pushApplications(snap Snapshot) {
	if !s.canPush(snap) {
		return
	}
	token, apps := snap.Token, slices.Clone(snap.Applications)
	if apps == nil {
		apps = []tracker.Application{}
	}
	s.queues.Submit(ResourceApplications, func(ctx context.Context) error {
		return s.remote.SaveApplications(ctx, token, apps)
	})
}
