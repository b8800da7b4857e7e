package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
	"github.com/loansi/scoring-engine/pkg/events"
	pkgpostgres "github.com/loansi/scoring-engine/pkg/postgres"
)

// EvaluationRepo implements port.EvaluationRepository. Saves run inside a
// transaction that also stores the aggregate's domain events in the outbox
// table, so the record and its events commit or roll back together.
type EvaluationRepo struct {
	pool   *pgxpool.Pool
	outbox *OutboxRepo
}

// NewEvaluationRepo creates a new repository backed by PostgreSQL.
func NewEvaluationRepo(pool *pgxpool.Pool, outbox *OutboxRepo) *EvaluationRepo {
	return &EvaluationRepo{pool: pool, outbox: outbox}
}

// Save persists an evaluation (upsert by ID with optimistic locking) and its
// pending domain events.
func (r *EvaluationRepo) Save(ctx context.Context, eval model.Evaluation) error {
	criteria, err := json.Marshal(eval.CriterionScores())
	if err != nil {
		return fmt.Errorf("marshal criterion scores: %w", err)
	}
	values, err := json.Marshal(eval.Values())
	if err != nil {
		return fmt.Errorf("marshal applicant values: %w", err)
	}
	economics, err := json.Marshal(eval.Economics())
	if err != nil {
		return fmt.Errorf("marshal economics: %w", err)
	}
	var decision []byte
	if eval.Decision() != nil {
		decision, err = json.Marshal(eval.Decision())
		if err != nil {
			return fmt.Errorf("marshal committee decision: %w", err)
		}
	}

	query := `
		INSERT INTO evaluations (
			id, product_id, applicant_name, applicant_document,
			requested_amount, term_units, applicant_values, criterion_scores,
			raw_score, normalized_score,
			tier_name, tier_code, tier_rank, tier_before_downgrade, tier_degraded,
			approved, auto_rejected, rejection_reason, rejection_factor,
			committee_state, committee_reason, committee_decision,
			economics, snapshot_version,
			version, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,
			$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27
		)
		ON CONFLICT (id) DO UPDATE SET
			approved           = EXCLUDED.approved,
			committee_state    = EXCLUDED.committee_state,
			committee_decision = EXCLUDED.committee_decision,
			tier_name          = EXCLUDED.tier_name,
			tier_code          = EXCLUDED.tier_code,
			tier_rank          = EXCLUDED.tier_rank,
			tier_before_downgrade = EXCLUDED.tier_before_downgrade,
			version            = evaluations.version + 1,
			updated_at         = EXCLUDED.updated_at
		WHERE evaluations.version = $25
	`

	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			eval.ID(), eval.ProductID(), eval.ApplicantName(), eval.ApplicantDocument(),
			eval.RequestedAmount(), eval.TermUnits(), values, criteria,
			eval.RawScore(), eval.NormalizedScore(),
			eval.TierName(), eval.TierCode(), eval.TierRank(), eval.TierBeforeDowngrade(), eval.TierDegraded(),
			eval.Approved(), eval.AutoRejected(), eval.RejectionReason(), eval.RejectionFactor(),
			eval.CommitteeState().String(), eval.CommitteeReason(), decision,
			economics, eval.SnapshotVersion(),
			eval.Version(), eval.CreatedAt(), eval.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save evaluation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errors.New("optimistic locking conflict on evaluation")
		}

		domainEvents := eval.DomainEvents()
		if len(domainEvents) == 0 {
			return nil
		}
		entries := make([]events.OutboxEntry, 0, len(domainEvents))
		for _, evt := range domainEvents {
			entries = append(entries, events.NewOutboxEntry(evt))
		}
		return r.outbox.StoreTx(ctx, tx, entries)
	})
}

// FindByID retrieves a single evaluation.
func (r *EvaluationRepo) FindByID(ctx context.Context, id string) (model.Evaluation, error) {
	query := selectEvaluation + ` WHERE id = $1`
	eval, err := scanEvaluation(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Evaluation{}, port.ErrEvaluationNotFound
	}
	return eval, err
}

// FindByApplicantDocument retrieves all evaluations for an applicant,
// newest first.
func (r *EvaluationRepo) FindByApplicantDocument(ctx context.Context, document string) ([]model.Evaluation, error) {
	query := selectEvaluation + ` WHERE applicant_document = $1 ORDER BY created_at DESC`
	return r.scanMany(ctx, query, document)
}

// FindPendingCommittee retrieves evaluations awaiting a reviewer for a
// product, oldest first.
func (r *EvaluationRepo) FindPendingCommittee(ctx context.Context, productID int64) ([]model.Evaluation, error) {
	query := selectEvaluation + ` WHERE product_id = $1 AND committee_state = 'PENDING' ORDER BY created_at ASC`
	return r.scanMany(ctx, query, productID)
}

const selectEvaluation = `
	SELECT id, product_id, applicant_name, applicant_document,
	       requested_amount, term_units, applicant_values, criterion_scores,
	       raw_score, normalized_score,
	       tier_name, tier_code, tier_rank, tier_before_downgrade, tier_degraded,
	       approved, auto_rejected, rejection_reason, rejection_factor,
	       committee_state, committee_reason, committee_decision,
	       economics, snapshot_version,
	       version, created_at, updated_at
	FROM evaluations`

func (r *EvaluationRepo) scanMany(ctx context.Context, query string, args ...any) ([]model.Evaluation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var result []model.Evaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, eval)
	}
	return result, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEvaluation(s scannable) (model.Evaluation, error) {
	var (
		id, applicantName, document                   string
		productID, requestedAmount, snapshotVersion   int64
		termUnits, rawScore, normalizedScore          float64
		valuesJSON, criteriaJSON, economicsJSON       []byte
		decisionJSON                                  []byte
		tierName, tierCode, tierBefore                string
		tierRank, version                             int
		tierDegraded, approved, autoRejected          bool
		rejectionReason, rejectionFactor              string
		committeeStateStr, committeeReason            string
		createdAt, updatedAt                          time.Time
	)

	err := s.Scan(
		&id, &productID, &applicantName, &document,
		&requestedAmount, &termUnits, &valuesJSON, &criteriaJSON,
		&rawScore, &normalizedScore,
		&tierName, &tierCode, &tierRank, &tierBefore, &tierDegraded,
		&approved, &autoRejected, &rejectionReason, &rejectionFactor,
		&committeeStateStr, &committeeReason, &decisionJSON,
		&economicsJSON, &snapshotVersion,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("scan evaluation: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(valuesJSON, &values); err != nil {
		return model.Evaluation{}, fmt.Errorf("unmarshal applicant values: %w", err)
	}
	var criteria []model.CriterionScore
	if err := json.Unmarshal(criteriaJSON, &criteria); err != nil {
		return model.Evaluation{}, fmt.Errorf("unmarshal criterion scores: %w", err)
	}
	var economics model.LoanEconomics
	if err := json.Unmarshal(economicsJSON, &economics); err != nil {
		return model.Evaluation{}, fmt.Errorf("unmarshal economics: %w", err)
	}
	var decision *model.CommitteeDecision
	if len(decisionJSON) > 0 {
		decision = &model.CommitteeDecision{}
		if err := json.Unmarshal(decisionJSON, decision); err != nil {
			return model.Evaluation{}, fmt.Errorf("unmarshal committee decision: %w", err)
		}
	}

	committeeState, err := valueobject.NewCommitteeState(committeeStateStr)
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("parse committee state: %w", err)
	}

	return model.ReconstructEvaluation(model.ReconstructEvaluationParams{
		ID:                  id,
		ProductID:           productID,
		ApplicantName:       applicantName,
		ApplicantDocument:   document,
		RequestedAmount:     requestedAmount,
		TermUnits:           termUnits,
		Values:              values,
		CriterionScores:     criteria,
		RawScore:            rawScore,
		NormalizedScore:     normalizedScore,
		TierName:            tierName,
		TierCode:            tierCode,
		TierRank:            tierRank,
		TierBeforeDowngrade: tierBefore,
		TierDegraded:        tierDegraded,
		Approved:            approved,
		AutoRejected:        autoRejected,
		RejectionReason:     rejectionReason,
		RejectionFactor:     rejectionFactor,
		CommitteeState:      committeeState,
		CommitteeReason:     committeeReason,
		Decision:            decision,
		Economics:           economics,
		SnapshotVersion:     snapshotVersion,
		Version:             version,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}), nil
}
