package port

import (
	"context"
	"errors"

	"github.com/loansi/scoring-engine/internal/domain/event"
	"github.com/loansi/scoring-engine/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

var (
	// ErrEvaluationNotFound is returned when no evaluation matches the query.
	ErrEvaluationNotFound = errors.New("evaluation not found")
	// ErrProductNotFound is returned when no product matches the query.
	ErrProductNotFound = errors.New("product not found")
	// ErrVersionConflict is returned when a configuration write carries a
	// stale config version.
	ErrVersionConflict = errors.New("configuration version conflict")
)

// EvaluationRepository persists and retrieves evaluations.
type EvaluationRepository interface {
	Save(ctx context.Context, eval model.Evaluation) error
	FindByID(ctx context.Context, id string) (model.Evaluation, error)
	FindByApplicantDocument(ctx context.Context, document string) ([]model.Evaluation, error)
	FindPendingCommittee(ctx context.Context, productID int64) ([]model.Evaluation, error)
}

// CatalogRepository reads and writes per-product scoring configuration.
// Every write carries the version the caller read; a stale version fails
// with a version conflict and the caller must re-read.
type CatalogRepository interface {
	GetProduct(ctx context.Context, productID int64) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetCriteriaCatalog(ctx context.Context, productID int64) (model.Catalog, error)
	GetRiskTiers(ctx context.Context, productID int64) ([]model.RiskTier, error)
	GetRejectionFactors(ctx context.Context, productID int64) ([]model.RejectionFactor, error)
	GetInsuranceBrackets(ctx context.Context) (model.InsuranceTable, error)
	GetCommitteeThresholds(ctx context.Context, productID int64) (model.CommitteeThresholds, error)
	GetConfigVersion(ctx context.Context, productID int64) (int64, error)

	SaveCriteriaCatalog(ctx context.Context, productID int64, catalog model.Catalog, version int64) error
	SaveRiskTiers(ctx context.Context, productID int64, tiers []model.RiskTier, version int64) error
	SaveRejectionFactors(ctx context.Context, productID int64, factors []model.RejectionFactor, version int64) error

	SeedProductDefaults(ctx context.Context, product model.Product) error
}

// SnapshotProvider serves a consistent configuration snapshot for one
// evaluate() call, cached with a bounded validity window.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, productID int64) (model.Snapshot, error)
	Invalidate(ctx context.Context, productID int64) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// CreditBureauClient fetches bureau data for an applicant document. The
// returned values merge into the applicant value map under the well-known
// field codes.
type CreditBureauClient interface {
	FetchBureauData(ctx context.Context, document string) (map[string]string, error)
}
