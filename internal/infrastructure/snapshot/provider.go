package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
)

// Cache is the minimal TTL cache the provider needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DefaultTTL bounds how stale a snapshot may get when an invalidation is
// missed.
const DefaultTTL = 5 * time.Minute

// Provider implements port.SnapshotProvider: it assembles a product's full
// scoring configuration into one immutable snapshot, cached under a TTL and
// explicitly invalidated on configuration writes.
type Provider struct {
	catalog port.CatalogRepository
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewProvider wires the provider. A nil cache disables caching entirely.
func NewProvider(catalog port.CatalogRepository, cache Cache, ttl time.Duration, logger *slog.Logger) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{catalog: catalog, cache: cache, ttl: ttl, logger: logger}
}

// Snapshot returns the configuration snapshot for a product, serving from
// cache when fresh.
func (p *Provider) Snapshot(ctx context.Context, productID int64) (model.Snapshot, error) {
	key := cacheKey(productID)

	if p.cache != nil {
		if raw, err := p.cache.Get(ctx, key); err == nil {
			var snap model.Snapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				return snap, nil
			}
			// Corrupt entry: drop it and rebuild from the database.
			_ = p.cache.Delete(ctx, key)
		}
	}

	snap, err := p.build(ctx, productID)
	if err != nil {
		return model.Snapshot{}, err
	}

	if p.cache != nil {
		raw, err := json.Marshal(snap)
		if err == nil {
			if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
				p.logger.WarnContext(ctx, "snapshot cache write failed",
					"product_id", productID, "error", err)
			}
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot for a product.
func (p *Provider) Invalidate(ctx context.Context, productID int64) error {
	if p.cache == nil {
		return nil
	}
	if err := p.cache.Delete(ctx, cacheKey(productID)); err != nil {
		return fmt.Errorf("invalidate snapshot cache: %w", err)
	}
	return nil
}

// build reads every configuration section once, tagged with the version
// current at read time.
func (p *Provider) build(ctx context.Context, productID int64) (model.Snapshot, error) {
	version, err := p.catalog.GetConfigVersion(ctx, productID)
	if err != nil {
		return model.Snapshot{}, err
	}
	product, err := p.catalog.GetProduct(ctx, productID)
	if err != nil {
		return model.Snapshot{}, err
	}
	catalog, err := p.catalog.GetCriteriaCatalog(ctx, productID)
	if err != nil {
		return model.Snapshot{}, err
	}
	tiers, err := p.catalog.GetRiskTiers(ctx, productID)
	if err != nil {
		return model.Snapshot{}, err
	}
	factors, err := p.catalog.GetRejectionFactors(ctx, productID)
	if err != nil {
		return model.Snapshot{}, err
	}
	insurance, err := p.catalog.GetInsuranceBrackets(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	committee, err := p.catalog.GetCommitteeThresholds(ctx, productID)
	if err != nil {
		return model.Snapshot{}, err
	}

	for _, warning := range insurance.Validate() {
		p.logger.WarnContext(ctx, "insurance table issue", "detail", warning)
	}

	return model.Snapshot{
		Version:          version,
		Product:          product,
		Catalog:          catalog,
		Tiers:            tiers,
		RejectionFactors: factors,
		Insurance:        insurance,
		Committee:        committee,
	}, nil
}

func cacheKey(productID int64) string {
	return fmt.Sprintf("scoring:snapshot:%d", productID)
}
