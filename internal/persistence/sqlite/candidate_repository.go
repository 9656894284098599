package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // sqlite3 dialect
	"github.com/jmoiron/sqlx"

	"github.com/example/hearing-scheduler/internal/persistence"
)

const tableHearingCandidates = "hearing_candidates"

var candidateColumns = []any{
	"batch_id", "position", "kind", "source_id",
	"hearing_type_id", "court_location", "week_commencing_date", "listed_start_date_time",
	"booking_reference", "estimated_minutes", "notice_date", "referral_date",
	"payload", "created_at",
}

type candidateRow struct {
	BatchID             string         `db:"batch_id"`
	Position            int            `db:"position"`
	Kind                string         `db:"kind"`
	SourceID            string         `db:"source_id"`
	HearingTypeID       sql.NullString `db:"hearing_type_id"`
	CourtLocation       sql.NullString `db:"court_location"`
	WeekCommencingDate  sql.NullString `db:"week_commencing_date"`
	ListedStartDateTime sql.NullString `db:"listed_start_date_time"`
	BookingReference    sql.NullString `db:"booking_reference"`
	EstimatedMinutes    int            `db:"estimated_minutes"`
	NoticeDate          sql.NullString `db:"notice_date"`
	ReferralDate        sql.NullString `db:"referral_date"`
	Payload             string         `db:"payload"`
	CreatedAt           string         `db:"created_at"`
}

// SaveBatch stores records under batchID in the order given. Positions are
// reassigned from the slice order. Saving an existing batch id fails with
// persistence.ErrDuplicate.
func (s *Storage) SaveBatch(ctx context.Context, batchID string, records []persistence.CandidateRecord) error {
	if batchID == "" {
		return fmt.Errorf("sqlite: save batch: %w: empty batch id", persistence.ErrConstraintViolation)
	}
	if len(records) == 0 {
		return fmt.Errorf("sqlite: save batch %s: %w: no candidates", batchID, persistence.ErrConstraintViolation)
	}

	rows := make([]any, 0, len(records))
	for i, record := range records {
		createdAt := record.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		rows = append(rows, goqu.Record{
			"batch_id":               batchID,
			"position":               i,
			"kind":                   record.Kind,
			"source_id":              record.SourceID,
			"hearing_type_id":        nullableString(record.HearingTypeID),
			"court_location":         nullableString(record.CourtLocation),
			"week_commencing_date":   nullableDate(record.WeekCommencingDate),
			"listed_start_date_time": nullableInstant(record.ListedStartDateTime),
			"booking_reference":      nullableString(record.BookingReference),
			"estimated_minutes":      record.EstimatedMinutes,
			"notice_date":            nullableDate(record.NoticeDate),
			"referral_date":          nullableDate(record.ReferralDate),
			"payload":                string(record.Payload),
			"created_at":             createdAt.UTC().Format(time.RFC3339Nano),
		})
	}

	query, args, err := goqu.Dialect(dialectSQLite3).
		Insert(tableHearingCandidates).
		Rows(rows...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite: build insert for batch %s: %w", batchID, err)
	}

	return s.withTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("sqlite: save batch %s: %w", batchID, mapError(err))
		}
		return nil
	})
}

// ListBatch returns the records of batchID ordered by position, or
// persistence.ErrNotFound when the batch does not exist.
func (s *Storage) ListBatch(ctx context.Context, batchID string) ([]persistence.CandidateRecord, error) {
	query, args, err := goqu.Dialect(dialectSQLite3).
		From(tableHearingCandidates).
		Select(candidateColumns...).
		Where(goqu.Ex{"batch_id": batchID}).
		Order(goqu.I("position").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: build select for batch %s: %w", batchID, err)
	}

	var rows []candidateRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: list batch %s: %w", batchID, mapError(err))
	}
	if len(rows) == 0 {
		return nil, persistence.ErrNotFound
	}

	records := make([]persistence.CandidateRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("sqlite: decode batch %s position %d: %w", batchID, row.Position, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// DeleteBatch removes every record of batchID.
func (s *Storage) DeleteBatch(ctx context.Context, batchID string) error {
	query, args, err := goqu.Dialect(dialectSQLite3).
		Delete(tableHearingCandidates).
		Where(goqu.Ex{"batch_id": batchID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite: build delete for batch %s: %w", batchID, err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: delete batch %s: %w", batchID, mapError(err))
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r candidateRow) toRecord() (persistence.CandidateRecord, error) {
	record := persistence.CandidateRecord{
		BatchID:          r.BatchID,
		Position:         r.Position,
		Kind:             r.Kind,
		SourceID:         r.SourceID,
		HearingTypeID:    stringPtr(r.HearingTypeID),
		CourtLocation:    stringPtr(r.CourtLocation),
		BookingReference: stringPtr(r.BookingReference),
		EstimatedMinutes: r.EstimatedMinutes,
		Payload:          []byte(r.Payload),
	}

	var err error
	if record.WeekCommencingDate, err = parseNullable(r.WeekCommencingDate, dateLayout); err != nil {
		return persistence.CandidateRecord{}, fmt.Errorf("week_commencing_date: %w", err)
	}
	if record.ListedStartDateTime, err = parseNullable(r.ListedStartDateTime, time.RFC3339Nano); err != nil {
		return persistence.CandidateRecord{}, fmt.Errorf("listed_start_date_time: %w", err)
	}
	if record.NoticeDate, err = parseNullable(r.NoticeDate, dateLayout); err != nil {
		return persistence.CandidateRecord{}, fmt.Errorf("notice_date: %w", err)
	}
	if record.ReferralDate, err = parseNullable(r.ReferralDate, dateLayout); err != nil {
		return persistence.CandidateRecord{}, fmt.Errorf("referral_date: %w", err)
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, r.CreatedAt); err != nil {
		return persistence.CandidateRecord{}, fmt.Errorf("created_at: %w", err)
	}
	return record, nil
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableDate(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(dateLayout)
}

func nullableInstant(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(time.RFC3339Nano)
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func parseNullable(v sql.NullString, layout string) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(layout, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
