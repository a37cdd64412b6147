package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const orderColumns = "id, session_id, child_name, lesson_title, status, intake_json, script_json, qa_report_json, visuals_json, audio_path, video_path, sheet_path, error_message, created_at, updated_at, progress_stage, progress_percent, progress_message, qa_attempts, fallback_used, last_heartbeat, needs_review, review_reason"

// NewOrder inserts a pending order for a finalized intake.
func (s *Store) NewOrder(ctx context.Context, sessionID, childName, lessonTitle, intakeJSON string) (*Order, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO lesson_orders (
            session_id, child_name, lesson_title, status, intake_json,
            created_at, updated_at, progress_percent
        ) VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		nullableString(sessionID),
		nullableString(childName),
		nullableString(lessonTitle),
		StatusPending,
		nullableString(intakeJSON),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches an order by identifier. Returns nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Order, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+orderColumns+` FROM lesson_orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// FindBySessionID returns the first order created from an intake session.
func (s *Store) FindBySessionID(ctx context.Context, sessionID string) (*Order, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+orderColumns+` FROM lesson_orders WHERE session_id = ? ORDER BY id LIMIT 1`,
		sessionID,
	)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by session: %w", err)
	}
	return order, nil
}

// Update persists changes to an existing order.
func (s *Store) Update(ctx context.Context, order *Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	order.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE lesson_orders
         SET session_id = ?, child_name = ?, lesson_title = ?, status = ?,
             intake_json = ?, script_json = ?, qa_report_json = ?, visuals_json = ?,
             audio_path = ?, video_path = ?, sheet_path = ?, error_message = ?,
             updated_at = ?, progress_stage = ?, progress_percent = ?, progress_message = ?,
             qa_attempts = ?, fallback_used = ?, last_heartbeat = ?,
             needs_review = ?, review_reason = ?
         WHERE id = ?`,
		nullableString(order.SessionID),
		nullableString(order.ChildName),
		nullableString(order.LessonTitle),
		order.Status,
		nullableString(order.IntakeJSON),
		nullableString(order.ScriptJSON),
		nullableString(order.QAReportJSON),
		nullableString(order.VisualsJSON),
		nullableString(order.AudioPath),
		nullableString(order.VideoPath),
		nullableString(order.SheetPath),
		nullableString(order.ErrorMessage),
		order.UpdatedAt.Format(time.RFC3339Nano),
		nullableString(order.ProgressStage),
		order.ProgressPercent,
		nullableString(order.ProgressMessage),
		order.QAAttempts,
		boolToInt(order.FallbackUsed),
		nullableTime(order.LastHeartbeat),
		boolToInt(order.NeedsReview),
		nullableString(order.ReviewReason),
		order.ID,
	); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// List returns orders filtered by status set (or all orders when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Order, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + orderColumns + ` FROM lesson_orders`
	orderClause := ` ORDER BY created_at`

	ctx = ensureContext(ctx)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// NextForStatuses returns the oldest order matching any of the provided statuses.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Order, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := makePlaceholders(len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}

	query := `SELECT ` + orderColumns + ` FROM lesson_orders WHERE status IN (` + placeholders + `) ORDER BY created_at LIMIT 1`
	row := s.db.QueryRowContext(ensureContext(ctx), query, args...)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Remove deletes an order by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM lesson_orders WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanOrder(scanner interface{ Scan(dest ...any) error }) (*Order, error) {
	var (
		id               int64
		sessionID        sql.NullString
		childName        sql.NullString
		lessonTitle      sql.NullString
		statusStr        string
		intakeJSON       sql.NullString
		scriptJSON       sql.NullString
		qaReportJSON     sql.NullString
		visualsJSON      sql.NullString
		audioPath        sql.NullString
		videoPath        sql.NullString
		sheetPath        sql.NullString
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		progressPercent  sql.NullFloat64
		progressMessage  sql.NullString
		qaAttempts       sql.NullInt64
		fallbackUsed     sql.NullInt64
		lastHeartbeatRaw sql.NullString
		needsReview      sql.NullInt64
		reviewReason     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sessionID,
		&childName,
		&lessonTitle,
		&statusStr,
		&intakeJSON,
		&scriptJSON,
		&qaReportJSON,
		&visualsJSON,
		&audioPath,
		&videoPath,
		&sheetPath,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&qaAttempts,
		&fallbackUsed,
		&lastHeartbeatRaw,
		&needsReview,
		&reviewReason,
	); err != nil {
		return nil, err
	}

	order := &Order{
		ID:              id,
		SessionID:       sessionID.String,
		ChildName:       childName.String,
		LessonTitle:     lessonTitle.String,
		Status:          Status(statusStr),
		IntakeJSON:      intakeJSON.String,
		ScriptJSON:      scriptJSON.String,
		QAReportJSON:    qaReportJSON.String,
		VisualsJSON:     visualsJSON.String,
		AudioPath:       audioPath.String,
		VideoPath:       videoPath.String,
		SheetPath:       sheetPath.String,
		ErrorMessage:    errorMessage.String,
		ProgressStage:   progressStage.String,
		ProgressPercent: progressPercent.Float64,
		ProgressMessage: progressMessage.String,
		QAAttempts:      int(qaAttempts.Int64),
		ReviewReason:    reviewReason.String,
	}
	if fallbackUsed.Valid {
		order.FallbackUsed = fallbackUsed.Int64 != 0
	}
	if needsReview.Valid {
		order.NeedsReview = needsReview.Int64 != 0
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		order.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		order.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			order.LastHeartbeat = &heartbeat
		}
	}
	return order, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
