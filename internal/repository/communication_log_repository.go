package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yuvinraja/crm-backend/internal/models"
)

// CommunicationLogRepository defines the interface for delivery log access
type CommunicationLogRepository interface {
	CreateBatch(ctx context.Context, logs []*models.CommunicationLog) error
	GetByID(ctx context.Context, id int64) (*models.CommunicationLog, error)
	List(ctx context.Context, filter models.CommunicationLogFilter) ([]*models.CommunicationLog, int64, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CommunicationLog, error)
	ListAll(ctx context.Context) ([]*models.CommunicationLog, error)
	MarkSent(ctx context.Context, id int64, vendor *models.VendorResponse) error
	MarkFailed(ctx context.Context, id int64, vendor *models.VendorResponse) error
}

// communicationLogRepository implements CommunicationLogRepository using
// PostgreSQL. The vendor response is flattened into columns rather than
// JSONB so the delivery timestamp stays queryable.
type communicationLogRepository struct {
	db *sql.DB
}

// NewCommunicationLogRepository creates a new communication log repository
func NewCommunicationLogRepository(db *sql.DB) CommunicationLogRepository {
	return &communicationLogRepository{db: db}
}

const logColumns = `id, customer_id, campaign_id, delivery_status, message,
	vendor_message_id, vendor_timestamp, vendor_error, created_at, updated_at`

// CreateBatch inserts the audience snapshot for a campaign in one
// transaction: one PENDING log per (campaign, customer) pair.
func (r *communicationLogRepository) CreateBatch(ctx context.Context, logs []*models.CommunicationLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Rollback is safe to call even after Commit
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO communication_logs (customer_id, campaign_id, delivery_status, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, log := range logs {
		err := stmt.QueryRowContext(
			ctx,
			log.CustomerID,
			log.CampaignID,
			log.DeliveryStatus,
			log.Message,
		).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)

		if err != nil {
			return fmt.Errorf("failed to insert communication log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a communication log by ID
func (r *communicationLogRepository) GetByID(ctx context.Context, id int64) (*models.CommunicationLog, error) {
	query := `SELECT ` + logColumns + ` FROM communication_logs WHERE id = $1`

	log, err := scanCommunicationLog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("communication log with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get communication log: %w", err)
	}

	return log, nil
}

// List retrieves communication logs with pagination and filtering
func (r *communicationLogRepository) List(ctx context.Context, filter models.CommunicationLogFilter) ([]*models.CommunicationLog, int64, error) {
	models.ClampPage(&filter.Page, &filter.PageSize)

	query := `SELECT ` + logColumns + ` FROM communication_logs WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM communication_logs WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.CampaignID > 0 {
		query += fmt.Sprintf(" AND campaign_id = $%d", argPos)
		countQuery += fmt.Sprintf(" AND campaign_id = $%d", argPos)
		args = append(args, filter.CampaignID)
		argPos++
	}

	if filter.CustomerID > 0 {
		query += fmt.Sprintf(" AND customer_id = $%d", argPos)
		countQuery += fmt.Sprintf(" AND customer_id = $%d", argPos)
		args = append(args, filter.CustomerID)
		argPos++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND delivery_status = $%d", argPos)
		countQuery += fmt.Sprintf(" AND delivery_status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	var totalCount int64
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count communication logs: %w", err)
	}

	offset := models.PageOffset(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list communication logs: %w", err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows)
	if err != nil {
		return nil, 0, err
	}

	return logs, totalCount, nil
}

// ListByCampaign retrieves the full log set for one campaign. Stats are
// computed over this set, so it is deliberately unpaginated.
func (r *communicationLogRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CommunicationLog, error) {
	query := `SELECT ` + logColumns + ` FROM communication_logs WHERE campaign_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communication logs: %w", err)
	}
	defer rows.Close()

	return collectLogs(rows)
}

// ListAll retrieves every communication log, for dashboard aggregation.
func (r *communicationLogRepository) ListAll(ctx context.Context) ([]*models.CommunicationLog, error) {
	query := `SELECT ` + logColumns + ` FROM communication_logs ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list communication logs: %w", err)
	}
	defer rows.Close()

	return collectLogs(rows)
}

// MarkSent moves a log to its terminal SENT state with the vendor receipt.
func (r *communicationLogRepository) MarkSent(ctx context.Context, id int64, vendor *models.VendorResponse) error {
	return r.finalize(ctx, id, models.DeliveryStatusSent, vendor)
}

// MarkFailed moves a log to its terminal FAILED state with the vendor error.
func (r *communicationLogRepository) MarkFailed(ctx context.Context, id int64, vendor *models.VendorResponse) error {
	return r.finalize(ctx, id, models.DeliveryStatusFailed, vendor)
}

// finalize only transitions PENDING rows: terminal states never change, so a
// duplicate delivery job is a no-op rather than a corruption.
func (r *communicationLogRepository) finalize(ctx context.Context, id int64, status string, vendor *models.VendorResponse) error {
	query := `
		UPDATE communication_logs
		SET delivery_status = $1, vendor_message_id = $2, vendor_timestamp = $3,
		    vendor_error = $4, updated_at = NOW()
		WHERE id = $5 AND delivery_status = $6`

	var messageID, errorMessage sql.NullString
	var timestamp sql.NullTime
	if vendor != nil {
		if vendor.MessageID != "" {
			messageID = sql.NullString{String: vendor.MessageID, Valid: true}
		}
		if vendor.Timestamp != nil {
			timestamp = sql.NullTime{Time: *vendor.Timestamp, Valid: true}
		}
		if vendor.ErrorMessage != "" {
			errorMessage = sql.NullString{String: vendor.ErrorMessage, Valid: true}
		}
	}

	result, err := r.db.ExecContext(ctx, query, status, messageID, timestamp, errorMessage, id, models.DeliveryStatusPending)
	if err != nil {
		return fmt.Errorf("failed to update communication log: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrConflictWithMsg(fmt.Sprintf("communication log %d is not pending", id))
	}

	return nil
}

func collectLogs(rows *sql.Rows) ([]*models.CommunicationLog, error) {
	logs := []*models.CommunicationLog{}
	for rows.Next() {
		log, err := scanCommunicationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan communication log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating communication logs: %w", err)
	}

	return logs, nil
}

func scanCommunicationLog(row rowScanner) (*models.CommunicationLog, error) {
	log := &models.CommunicationLog{}
	var messageID, errorMessage sql.NullString
	var timestamp sql.NullTime

	err := row.Scan(
		&log.ID,
		&log.CustomerID,
		&log.CampaignID,
		&log.DeliveryStatus,
		&log.Message,
		&messageID,
		&timestamp,
		&errorMessage,
		&log.CreatedAt,
		&log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if messageID.Valid || timestamp.Valid || errorMessage.Valid {
		vendor := &models.VendorResponse{
			MessageID:    messageID.String,
			ErrorMessage: errorMessage.String,
		}
		if timestamp.Valid {
			ts := timestamp.Time
			vendor.Timestamp = &ts
		}
		log.VendorResponse = vendor
	}

	return log, nil
}
