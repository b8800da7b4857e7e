package usecase

import (
	"context"
	"fmt"

	"github.com/loansi/scoring-engine/internal/domain/event"
	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
)

// ManageConfigurationUseCase applies versioned writes to a product's scoring
// configuration. Every write carries the version the editor read; a stale
// version fails so concurrent edits cannot silently overwrite each other.
// Successful writes invalidate the snapshot cache and announce the change.
type ManageConfigurationUseCase struct {
	catalogRepo port.CatalogRepository
	snapshots   port.SnapshotProvider
	publisher   port.EventPublisher
}

// NewManageConfigurationUseCase wires dependencies.
func NewManageConfigurationUseCase(
	catalogRepo port.CatalogRepository,
	snapshots port.SnapshotProvider,
	publisher port.EventPublisher,
) *ManageConfigurationUseCase {
	return &ManageConfigurationUseCase{
		catalogRepo: catalogRepo,
		snapshots:   snapshots,
		publisher:   publisher,
	}
}

// UpdateCriteria replaces the criteria catalog. The catalog must validate
// (weights summing to 100) before it is accepted.
func (uc *ManageConfigurationUseCase) UpdateCriteria(
	ctx context.Context,
	productID int64,
	catalog model.Catalog,
	version int64,
) error {
	if err := catalog.Validate(); err != nil {
		return err
	}
	if err := uc.catalogRepo.SaveCriteriaCatalog(ctx, productID, catalog, version); err != nil {
		return fmt.Errorf("save criteria catalog: %w", err)
	}
	return uc.announce(ctx, productID, "criteria", version+1)
}

// UpdateTiers replaces the risk tiers. The tier set must cover the whole
// score range before it is accepted.
func (uc *ManageConfigurationUseCase) UpdateTiers(
	ctx context.Context,
	productID int64,
	tiers []model.RiskTier,
	version int64,
) error {
	active := make([]model.RiskTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Active {
			active = append(active, t)
		}
	}
	if err := model.ValidateTiers(productID, active); err != nil {
		return err
	}
	if err := uc.catalogRepo.SaveRiskTiers(ctx, productID, tiers, version); err != nil {
		return fmt.Errorf("save risk tiers: %w", err)
	}
	return uc.announce(ctx, productID, "tiers", version+1)
}

// UpdateRejectionFactors replaces the hard-stop list.
func (uc *ManageConfigurationUseCase) UpdateRejectionFactors(
	ctx context.Context,
	productID int64,
	factors []model.RejectionFactor,
	version int64,
) error {
	for _, f := range factors {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	if err := uc.catalogRepo.SaveRejectionFactors(ctx, productID, factors, version); err != nil {
		return fmt.Errorf("save rejection factors: %w", err)
	}
	return uc.announce(ctx, productID, "rejection_factors", version+1)
}

// SeedProduct creates a product with the default policy, tiers and factors
// derived from its base annual rate.
func (uc *ManageConfigurationUseCase) SeedProduct(ctx context.Context, product model.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if err := uc.catalogRepo.SeedProductDefaults(ctx, product); err != nil {
		return fmt.Errorf("seed product defaults: %w", err)
	}
	return uc.announce(ctx, product.ID, "seed", 1)
}

// announce invalidates the cached snapshot and publishes the change. Both
// are best effort after a committed write; readers fall back to the TTL.
func (uc *ManageConfigurationUseCase) announce(ctx context.Context, productID int64, section string, version int64) error {
	if err := uc.snapshots.Invalidate(ctx, productID); err != nil {
		return fmt.Errorf("invalidate snapshot: %w", err)
	}
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, event.NewConfigurationChanged(productID, section, version)); err != nil {
			return fmt.Errorf("publish configuration change: %w", err)
		}
	}
	return nil
}
