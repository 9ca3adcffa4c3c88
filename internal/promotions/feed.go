package promotions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/tillpoint-backend/pkg/redis"
)

const activeSnapshotScope = "active"

// RuleFeed yields the current snapshot of specials. A snapshot is valid for
// one evaluation pass.
type RuleFeed interface {
	Rules(ctx context.Context) ([]Rule, error)
}

// RuleFeedFunc adapts a function into a RuleFeed.
type RuleFeedFunc func(ctx context.Context) ([]Rule, error)

func (fn RuleFeedFunc) Rules(ctx context.Context) ([]Rule, error) {
	return fn(ctx)
}

// StoreFeed reads specials from the repository, optionally through a redis
// snapshot cache. Rows that cannot be mapped are logged and skipped.
type StoreFeed struct {
	repo  Repository
	cache pkgredis.SnapshotCache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewStoreFeed wires a feed. cache may be nil, in which case every call reads
// the repository.
func NewStoreFeed(repo Repository, cache pkgredis.SnapshotCache, ttl time.Duration, logg *logger.Logger) (*StoreFeed, error) {
	if repo == nil {
		return nil, errors.New("specials repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &StoreFeed{repo: repo, cache: cache, ttl: ttl, logg: logg}, nil
}

func (f *StoreFeed) Rules(ctx context.Context) ([]Rule, error) {
	specials, err := f.load(ctx)
	if err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(specials))
	for _, special := range specials {
		rule, mapErr := RuleFromModel(special)
		if mapErr != nil {
			f.logg.Warn(f.logg.WithFields(ctx, map[string]any{
				"special_id": special.ID.String(),
				"reason":     mapErr.Error(),
			}), "rule.skipped")
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Invalidate drops the cached snapshot so the next read hits the repository.
func (f *StoreFeed) Invalidate(ctx context.Context) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Del(ctx, f.cache.RuleSnapshotKey(activeSnapshotScope))
}

func (f *StoreFeed) load(ctx context.Context) ([]models.Special, error) {
	if f.cache == nil || f.ttl <= 0 {
		return f.repo.ListActive(ctx)
	}

	key := f.cache.RuleSnapshotKey(activeSnapshotScope)
	cached, err := f.cache.Get(ctx, key)
	switch {
	case err == nil:
		var specials []models.Special
		if decodeErr := json.Unmarshal([]byte(cached), &specials); decodeErr == nil {
			return specials, nil
		}
		f.logg.Warn(ctx, "rule snapshot cache entry unreadable, reloading")
	case !pkgredis.IsNil(err):
		f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "rule snapshot cache unavailable")
	}

	specials, err := f.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if payload, marshalErr := json.Marshal(specials); marshalErr == nil {
		if setErr := f.cache.Set(ctx, key, string(payload), f.ttl); setErr != nil {
			f.logg.Warn(f.logg.WithField(ctx, "error", setErr.Error()), "rule snapshot cache write failed")
		}
	}
	return specials, nil
}
