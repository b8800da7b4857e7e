package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loansi/scoring-engine/internal/domain/model"
	"github.com/loansi/scoring-engine/internal/domain/port"
	pkgpostgres "github.com/loansi/scoring-engine/pkg/postgres"
)

// CatalogRepo implements port.CatalogRepository. Each product row carries a
// config_version; configuration writes bump it with an optimistic check so
// concurrent editors cannot silently overwrite each other.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

// NewCatalogRepo creates a new repository backed by PostgreSQL.
func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

const selectProduct = `
	SELECT id, name, description, amount_min, amount_max,
	       term_min, term_max, term_unit,
	       base_annual_pct, base_monthly_pct, base_aval_pct,
	       insurance_monthly_pct, platform_pct,
	       min_approval_score, manual_review_score, telecom_debt_ceiling,
	       age_min, age_max, max_dti_pct, min_bureau_score,
	       max_inquiries_3m, scale_max, active
	FROM products`

// GetProduct retrieves one product with its approval policy.
func (r *CatalogRepo) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectProduct+` WHERE id = $1`, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, port.ErrProductNotFound
	}
	return p, err
}

// ListProducts retrieves all active products.
func (r *CatalogRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, selectProduct+` WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetCriteriaCatalog retrieves the scoring criteria for a product. Buckets
// are stored as a JSON column per criterion.
func (r *CatalogRepo) GetCriteriaCatalog(ctx context.Context, productID int64) (model.Catalog, error) {
	query := `
		SELECT code, name, description, field_type, weight, active, ord, buckets
		FROM criteria
		WHERE product_id = $1
		ORDER BY ord, code
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("query criteria: %w", err)
	}
	defer rows.Close()

	catalog := model.Catalog{ProductID: productID}
	for rows.Next() {
		var (
			c           model.Criterion
			fieldType   string
			bucketsJSON []byte
		)
		if err := rows.Scan(&c.Code, &c.Name, &c.Description, &fieldType,
			&c.Weight, &c.Active, &c.Order, &bucketsJSON); err != nil {
			return model.Catalog{}, fmt.Errorf("scan criterion: %w", err)
		}
		c.FieldType = model.FieldType(fieldType)
		if err := json.Unmarshal(bucketsJSON, &c.Buckets); err != nil {
			return model.Catalog{}, fmt.Errorf("unmarshal buckets for %s: %w", c.Code, err)
		}
		catalog.Criteria = append(catalog.Criteria, c)
	}
	return catalog, rows.Err()
}

// GetRiskTiers retrieves the risk tiers for a product in configured order.
func (r *CatalogRepo) GetRiskTiers(ctx context.Context, productID int64) ([]model.RiskTier, error) {
	query := `
		SELECT name, code, score_min, score_max,
		       annual_pct, monthly_pct, aval_pct, color, ord, active
		FROM risk_tiers
		WHERE product_id = $1
		ORDER BY ord
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query risk tiers: %w", err)
	}
	defer rows.Close()

	var tiers []model.RiskTier
	for rows.Next() {
		var t model.RiskTier
		if err := rows.Scan(&t.Name, &t.Code, &t.ScoreMin, &t.ScoreMax,
			&t.AnnualPct, &t.MonthlyPct, &t.AvalPct, &t.Color, &t.Order, &t.Active); err != nil {
			return nil, fmt.Errorf("scan risk tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

// GetRejectionFactors retrieves the hard-stop list in configured order.
func (r *CatalogRepo) GetRejectionFactors(ctx context.Context, productID int64) ([]model.RejectionFactor, error) {
	query := `
		SELECT criterion_code, criterion_name, operator, threshold, message, active, ord
		FROM rejection_factors
		WHERE product_id = $1
		ORDER BY ord
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query rejection factors: %w", err)
	}
	defer rows.Close()

	var factors []model.RejectionFactor
	for rows.Next() {
		var (
			f  model.RejectionFactor
			op string
		)
		if err := rows.Scan(&f.CriterionCode, &f.CriterionName, &op,
			&f.Threshold, &f.Message, &f.Active, &f.Order); err != nil {
			return nil, fmt.Errorf("scan rejection factor: %w", err)
		}
		f.Operator = model.Operator(op)
		factors = append(factors, f)
	}
	return factors, rows.Err()
}

// GetInsuranceBrackets retrieves the global age-bracket insurance table.
func (r *CatalogRepo) GetInsuranceBrackets(ctx context.Context) (model.InsuranceTable, error) {
	query := `
		SELECT age_min, age_max, monthly_rate_per_million
		FROM insurance_brackets
		ORDER BY age_min
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return model.InsuranceTable{}, fmt.Errorf("query insurance brackets: %w", err)
	}
	defer rows.Close()

	var table model.InsuranceTable
	for rows.Next() {
		var b model.InsuranceBracket
		if err := rows.Scan(&b.AgeMin, &b.AgeMax, &b.MonthlyRatePerMillion); err != nil {
			return model.InsuranceTable{}, fmt.Errorf("scan insurance bracket: %w", err)
		}
		table.Brackets = append(table.Brackets, b)
	}
	return table, rows.Err()
}

// GetCommitteeThresholds retrieves the manual review thresholds for a
// product.
func (r *CatalogRepo) GetCommitteeThresholds(ctx context.Context, productID int64) (model.CommitteeThresholds, error) {
	query := `
		SELECT score_band_min, score_band_max, bureau_score_ceiling,
		       min_exposure, max_days_late, max_delinquency_days,
		       min_active_loans_good_standing
		FROM committee_thresholds
		WHERE product_id = $1
	`
	var t model.CommitteeThresholds
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&t.ScoreBandMin, &t.ScoreBandMax, &t.BureauScoreCeiling,
		&t.Behavior.MinExposure, &t.Behavior.MaxDaysLate,
		&t.Behavior.MaxDelinquencyDays, &t.Behavior.MinActiveLoansGoodStanding,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// No explicit row: derive the band from the product policy.
		p, perr := r.GetProduct(ctx, productID)
		if perr != nil {
			return model.CommitteeThresholds{}, perr
		}
		return model.CommitteeThresholds{
			ScoreBandMin: float64(p.Policy.ManualReviewScore),
			ScoreBandMax: float64(p.Policy.MinApprovalScore),
		}, nil
	}
	if err != nil {
		return model.CommitteeThresholds{}, fmt.Errorf("query committee thresholds: %w", err)
	}
	return t, nil
}

// GetConfigVersion reads the current configuration version for a product.
func (r *CatalogRepo) GetConfigVersion(ctx context.Context, productID int64) (int64, error) {
	var version int64
	err := r.pool.QueryRow(ctx,
		`SELECT config_version FROM products WHERE id = $1`, productID).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, port.ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query config version: %w", err)
	}
	return version, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// SaveCriteriaCatalog replaces the criteria set for a product.
func (r *CatalogRepo) SaveCriteriaCatalog(ctx context.Context, productID int64, catalog model.Catalog, version int64) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := bumpVersion(ctx, tx, productID, version); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM criteria WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("clear criteria: %w", err)
		}
		for _, c := range catalog.Criteria {
			buckets, err := json.Marshal(c.Buckets)
			if err != nil {
				return fmt.Errorf("marshal buckets for %s: %w", c.Code, err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO criteria (product_id, code, name, description, field_type, weight, active, ord, buckets)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
				productID, c.Code, c.Name, c.Description, string(c.FieldType),
				c.Weight, c.Active, c.Order, buckets,
			); err != nil {
				return fmt.Errorf("insert criterion %s: %w", c.Code, err)
			}
		}
		return nil
	})
}

// SaveRiskTiers replaces the tier set for a product.
func (r *CatalogRepo) SaveRiskTiers(ctx context.Context, productID int64, tiers []model.RiskTier, version int64) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := bumpVersion(ctx, tx, productID, version); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM risk_tiers WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("clear risk tiers: %w", err)
		}
		return insertTiers(ctx, tx, productID, tiers)
	})
}

// SaveRejectionFactors replaces the hard-stop list for a product.
func (r *CatalogRepo) SaveRejectionFactors(ctx context.Context, productID int64, factors []model.RejectionFactor, version int64) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := bumpVersion(ctx, tx, productID, version); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM rejection_factors WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("clear rejection factors: %w", err)
		}
		return insertFactors(ctx, tx, productID, factors)
	})
}

// SeedProductDefaults creates a product row plus the default tiers and
// rejection factors derived from its base annual rate.
func (r *CatalogRepo) SeedProductDefaults(ctx context.Context, product model.Product) error {
	policy := product.Policy
	if policy == (model.ApprovalPolicy{}) {
		policy = model.DefaultApprovalPolicy()
	}

	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO products (
				id, name, description, amount_min, amount_max,
				term_min, term_max, term_unit,
				base_annual_pct, base_monthly_pct, base_aval_pct,
				insurance_monthly_pct, platform_pct,
				min_approval_score, manual_review_score, telecom_debt_ceiling,
				age_min, age_max, max_dti_pct, min_bureau_score,
				max_inquiries_3m, scale_max, active, config_version
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,1)`,
			product.ID, product.Name, product.Description,
			product.AmountMin, product.AmountMax,
			product.TermMin, product.TermMax, string(product.TermUnit),
			product.BaseAnnualPct, product.BaseMonthlyPct, product.BaseAvalPct,
			product.Costs.InsuranceMonthlyPct, product.Costs.PlatformPct,
			policy.MinApprovalScore, policy.ManualReviewScore, policy.TelecomDebtCeiling,
			policy.AgeMin, policy.AgeMax, policy.MaxDTIPct, policy.MinBureauScore,
			policy.MaxInquiries3Months, policy.ScaleMax, product.Active,
		); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}

		if err := insertTiers(ctx, tx, product.ID, model.DefaultRiskTiers(product.BaseAnnualPct)); err != nil {
			return err
		}
		return insertFactors(ctx, tx, product.ID, model.DefaultRejectionFactors(product.Name, policy))
	})
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// bumpVersion applies the optimistic version check inside a write
// transaction. Zero affected rows means the editor read a stale version.
func bumpVersion(ctx context.Context, tx pgx.Tx, productID, version int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products SET config_version = config_version + 1
		WHERE id = $1 AND config_version = $2`,
		productID, version,
	)
	if err != nil {
		return fmt.Errorf("bump config version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrVersionConflict
	}
	return nil
}

func insertTiers(ctx context.Context, tx pgx.Tx, productID int64, tiers []model.RiskTier) error {
	for _, t := range tiers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO risk_tiers (product_id, name, code, score_min, score_max,
				annual_pct, monthly_pct, aval_pct, color, ord, active)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			productID, t.Name, t.Code, t.ScoreMin, t.ScoreMax,
			t.AnnualPct, t.MonthlyPct, t.AvalPct, t.Color, t.Order, t.Active,
		); err != nil {
			return fmt.Errorf("insert risk tier %s: %w", t.Code, err)
		}
	}
	return nil
}

func insertFactors(ctx context.Context, tx pgx.Tx, productID int64, factors []model.RejectionFactor) error {
	for _, f := range factors {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rejection_factors (product_id, criterion_code, criterion_name,
				operator, threshold, message, active, ord)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			productID, f.CriterionCode, f.CriterionName,
			string(f.Operator), f.Threshold, f.Message, f.Active, f.Order,
		); err != nil {
			return fmt.Errorf("insert rejection factor %s: %w", f.CriterionCode, err)
		}
	}
	return nil
}

func scanProduct(s scannable) (model.Product, error) {
	var (
		p        model.Product
		termUnit string
	)
	err := s.Scan(
		&p.ID, &p.Name, &p.Description, &p.AmountMin, &p.AmountMax,
		&p.TermMin, &p.TermMax, &termUnit,
		&p.BaseAnnualPct, &p.BaseMonthlyPct, &p.BaseAvalPct,
		&p.Costs.InsuranceMonthlyPct, &p.Costs.PlatformPct,
		&p.Policy.MinApprovalScore, &p.Policy.ManualReviewScore, &p.Policy.TelecomDebtCeiling,
		&p.Policy.AgeMin, &p.Policy.AgeMax, &p.Policy.MaxDTIPct, &p.Policy.MinBureauScore,
		&p.Policy.MaxInquiries3Months, &p.Policy.ScaleMax, &p.Active,
	)
	if err != nil {
		return model.Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.TermUnit = model.TermUnit(termUnit)
	return p, nil
}
