// Package viewprefs tracks each user's recently opened and favorite views
// per board. Lists are stored as JSON arrays of view ids.
package viewprefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

const DefaultRecentLimit = 10

type Prefs struct {
	store Store
	limit int
	mu    sync.Mutex
}

func New(store Store, recentLimit int) *Prefs {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Prefs{store: store, limit: recentLimit}
}

func RecentKey(userID, boardID string) string {
	return fmt.Sprintf("user:%s:recent_views_%s", userID, boardID)
}

func FavoriteKey(userID, boardID string) string {
	return fmt.Sprintf("user:%s:favorite_views_%s", userID, boardID)
}

// Recent returns the most recently opened view ids, newest first.
func (p *Prefs) Recent(ctx context.Context, userID, boardID string) ([]string, error) {
	return p.load(ctx, RecentKey(userID, boardID))
}

// Favorites returns favorite view ids in the order they were added.
func (p *Prefs) Favorites(ctx context.Context, userID, boardID string) ([]string, error) {
	return p.load(ctx, FavoriteKey(userID, boardID))
}

// TouchRecent moves viewID to the front of the recent list.
func (p *Prefs) TouchRecent(ctx context.Context, userID, boardID, viewID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := RecentKey(userID, boardID)
	ids, err := p.load(ctx, key)
	if err != nil {
		return nil, err
	}
	next := make([]string, 0, len(ids)+1)
	next = append(next, viewID)
	for _, id := range ids {
		if id != viewID {
			next = append(next, id)
		}
	}
	if len(next) > p.limit {
		next = next[:p.limit]
	}
	return next, p.save(ctx, key, next)
}

// ToggleFavorite adds or removes viewID and reports whether it is now a favorite.
func (p *Prefs) ToggleFavorite(ctx context.Context, userID, boardID, viewID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := FavoriteKey(userID, boardID)
	ids, err := p.load(ctx, key)
	if err != nil {
		return false, err
	}
	next, removed := without(ids, viewID)
	if !removed {
		next = append(next, viewID)
	}
	return !removed, p.save(ctx, key, next)
}

// IsFavorite reports whether viewID is in the user's favorites.
func (p *Prefs) IsFavorite(ctx context.Context, userID, boardID, viewID string) (bool, error) {
	ids, err := p.Favorites(ctx, userID, boardID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == viewID {
			return true, nil
		}
	}
	return false, nil
}

// Forget removes viewID from both lists.
func (p *Prefs) Forget(ctx context.Context, userID, boardID, viewID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, key := range []string{RecentKey(userID, boardID), FavoriteKey(userID, boardID)} {
		ids, err := p.load(ctx, key)
		if err != nil {
			return err
		}
		if next, removed := without(ids, viewID); removed {
			if err := p.save(ctx, key, next); err != nil {
				return err
			}
		}
	}
	return nil
}

// load treats a missing or corrupt value as an empty list.
func (p *Prefs) load(ctx context.Context, key string) ([]string, error) {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		log.Printf("⚠️ [ViewPrefs] Corrupt value at %s, resetting: %v", key, err)
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (p *Prefs) save(ctx context.Context, key string, ids []string) error {
	if len(ids) == 0 {
		return p.store.Delete(ctx, key)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func without(ids []string, viewID string) ([]string, bool) {
	out := make([]string, 0, len(ids))
	removed := false
	for _, id := range ids {
		if id == viewID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	return out, removed
}
