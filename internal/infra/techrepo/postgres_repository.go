package techrepo

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/technician-matching/internal/domain/matching"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository implements matching.Directory using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// QueryEligible fetches technicians matching filter joined with their account.
func (r *PostgresRepository) QueryEligible(ctx context.Context, filter matching.Filter, limit int) ([]matching.TechnicianRecord, error) {
	query, args, err := buildEligibleQuery(filter, limit)
	if err != nil {
		return nil, fmt.Errorf("build directory query: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []matching.TechnicianRecord
	for rows.Next() {
		rec, err := scanTechnicianRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func buildEligibleQuery(filter matching.Filter, limit int) (string, []any, error) {
	builder := psql.Select(
		"t.id",
		"u.id",
		"u.name",
		"COALESCE(u.email, '')",
		"COALESCE(u.phone, '')",
		"COALESCE(u.avatar, '')",
		"t.specialties",
		"t.hourly_rate",
		"t.average_rating",
		"t.total_jobs",
		"t.years_of_experience",
		"t.service_radius",
		"t.current_status",
		"t.kyc_status",
		"t.last_lat",
		"t.last_lng",
		"t.response_time_minutes",
		"t.recent_review",
	).
		From("technicians t").
		Join("users u ON u.id = t.user_id").
		OrderBy("t.created_at", "t.id")

	eq := sq.Eq{}
	if filter.Status != "" {
		eq["t.current_status"] = string(filter.Status)
	}
	if filter.KYCStatus != "" {
		eq["t.kyc_status"] = string(filter.KYCStatus)
	}
	if len(eq) > 0 {
		builder = builder.Where(eq)
	}
	if filter.Specialty != "" {
		builder = builder.Where(sq.Expr("? = ANY(t.specialties)", string(filter.Specialty)))
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	return builder.ToSql()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTechnicianRecord(row rowScanner) (matching.TechnicianRecord, error) {
	var (
		rec          matching.TechnicianRecord
		specialties  []string
		status       string
		kyc          string
		lastLat      *float64
		lastLng      *float64
		responseTime *float64
		review       []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.Account.ID,
		&rec.Account.Name,
		&rec.Account.Email,
		&rec.Account.Phone,
		&rec.Account.Avatar,
		&specialties,
		&rec.HourlyRate,
		&rec.AverageRating,
		&rec.TotalJobs,
		&rec.YearsOfExperience,
		&rec.ServiceRadius,
		&status,
		&kyc,
		&lastLat,
		&lastLng,
		&responseTime,
		&review,
	)
	if err != nil {
		return matching.TechnicianRecord{}, err
	}
	rec.Specialties = toSpecialties(specialties)
	rec.CurrentStatus = matching.Status(status)
	rec.KYCStatus = matching.KYCStatus(kyc)
	rec.LastLocation = toLocation(lastLat, lastLng)
	rec.ResponseTimeMinutes = responseTime
	if len(review) > 0 && string(review) != "null" {
		var snapshot matching.Review
		if err := json.Unmarshal(review, &snapshot); err != nil {
			return matching.TechnicianRecord{}, fmt.Errorf("decode recent review for %s: %w", rec.ID, err)
		}
		rec.RecentReview = &snapshot
	}
	return rec, nil
}

var _ matching.Directory = (*PostgresRepository)(nil)
