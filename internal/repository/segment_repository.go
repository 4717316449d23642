package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/segment"
)

// SegmentRepository defines the interface for segment data access
type SegmentRepository interface {
	Create(ctx context.Context, seg *models.Segment) error
	GetByID(ctx context.Context, id int64) (*models.Segment, error)
	List(ctx context.Context, filter models.SegmentFilter) ([]*models.Segment, int64, error)
	Count(ctx context.Context, since time.Time) (int64, error)
	UpdateAudienceSize(ctx context.Context, id int64, size int64) error
	Delete(ctx context.Context, id int64) error
}

// segmentRepository implements SegmentRepository using PostgreSQL.
// Conditions are stored as a JSONB document; decoding them goes through the
// condition parser, so a corrupted row surfaces as an error instead of a
// silently empty rule set.
type segmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) SegmentRepository {
	return &segmentRepository{db: db}
}

// Create inserts a new segment
func (r *segmentRepository) Create(ctx context.Context, seg *models.Segment) error {
	conditions, err := json.Marshal(seg.Conditions)
	if err != nil {
		return fmt.Errorf("failed to encode conditions: %w", err)
	}

	query := `
		INSERT INTO segments (name, conditions, logic, audience_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(
		ctx,
		query,
		seg.Name,
		conditions,
		string(seg.Logic),
		seg.AudienceSize,
	).Scan(&seg.ID, &seg.CreatedAt, &seg.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create segment: %w", err)
	}

	return nil
}

// GetByID retrieves a segment by ID
func (r *segmentRepository) GetByID(ctx context.Context, id int64) (*models.Segment, error) {
	query := `
		SELECT id, name, conditions, logic, audience_size, created_at, updated_at
		FROM segments
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	seg, err := scanSegment(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("segment with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}

	return seg, nil
}

// List retrieves segments with pagination and filtering
func (r *segmentRepository) List(ctx context.Context, filter models.SegmentFilter) ([]*models.Segment, int64, error) {
	models.ClampPage(&filter.Page, &filter.PageSize)

	query := `
		SELECT id, name, conditions, logic, audience_size, created_at, updated_at
		FROM segments
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM segments WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		countQuery += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}

	var totalCount int64
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count segments: %w", err)
	}

	offset := models.PageOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list segments: %w", err)
	}
	defer rows.Close()

	segments := []*models.Segment{}
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, seg)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating segments: %w", err)
	}

	return segments, totalCount, nil
}

// Count returns the number of segments created at or after since. A zero
// since counts the whole table.
func (r *segmentRepository) Count(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM segments`
	args := []interface{}{}

	if !since.IsZero() {
		query += ` WHERE created_at >= $1`
		args = append(args, since)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count segments: %w", err)
	}

	return count, nil
}

// UpdateAudienceSize refreshes the server-computed audience snapshot.
func (r *segmentRepository) UpdateAudienceSize(ctx context.Context, id int64, size int64) error {
	query := `
		UPDATE segments
		SET audience_size = $1, updated_at = NOW()
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, size, id)
	if err != nil {
		return fmt.Errorf("failed to update audience size: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("segment with ID %d not found", id))
	}

	return nil
}

// Delete removes a segment
func (r *segmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM segments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete segment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("segment with ID %d not found", id))
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSegment(row rowScanner) (*models.Segment, error) {
	seg := &models.Segment{}
	var conditions []byte
	var logic string

	err := row.Scan(
		&seg.ID,
		&seg.Name,
		&conditions,
		&logic,
		&seg.AudienceSize,
		&seg.CreatedAt,
		&seg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var parsed []segment.Condition
	if err := json.Unmarshal(conditions, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode conditions for segment %d: %w", seg.ID, err)
	}

	seg.Conditions = parsed
	seg.Logic = segment.Logic(logic)
	return seg, nil
}
