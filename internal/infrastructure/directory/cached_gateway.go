package directory

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crm/workbench/internal/domain/document"
)

// negativeEntry marks a cached lookup miss so repeated typing of an unknown
// vendor name does not hammer the backend.
var negativeEntry = []byte("null")

// CachedGateway wraps a DirectoryGateway with a TTL cache. Cache failures
// are logged and the lookup falls through to the backend.
type CachedGateway struct {
	inner document.DirectoryGateway
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedGateway(inner document.DirectoryGateway, cache Cache, ttl time.Duration, log *zap.Logger) *CachedGateway {
	return &CachedGateway{inner: inner, cache: cache, ttl: ttl, log: log}
}

func (g *CachedGateway) FindCompanyByName(ctx context.Context, name string) (*document.Company, error) {
	key := "company:" + strings.ToLower(strings.TrimSpace(name))

	if raw, hit, err := g.cache.Get(ctx, key); err != nil {
		g.log.Warn("directory cache read failed", zap.Error(err))
	} else if hit {
		if string(raw) == string(negativeEntry) {
			return nil, nil
		}
		var company document.Company
		if err := json.Unmarshal(raw, &company); err == nil {
			return &company, nil
		}
		g.log.Warn("directory cache entry corrupt, refetching", zap.String("key", key))
	}

	company, err := g.inner.FindCompanyByName(ctx, name)
	if err != nil {
		return nil, err
	}

	entry := negativeEntry
	if company != nil {
		if encoded, err := json.Marshal(company); err == nil {
			entry = encoded
		}
	}
	if err := g.cache.Set(ctx, key, entry, g.ttl); err != nil {
		g.log.Warn("directory cache write failed", zap.Error(err))
	}
	return company, nil
}
