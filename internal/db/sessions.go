package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/playtest.report/internal/telemetry"
)

// Session is one stored analysis row. Pointer fields mirror the metrics that
// are genuinely absent for capability profiles without floor contact.
type Session struct {
	SessionID              string    `json:"session_id"`
	SourceFile             string    `json:"source_file"`
	CharacterType          string    `json:"character_type"`
	SampleCount            int       `json:"sample_count"`
	DurationSec            float64   `json:"duration_sec"`
	TotalDistance          float64   `json:"total_distance"`
	HorizontalDistance     float64   `json:"horizontal_distance"`
	Displacement           float64   `json:"displacement"`
	HorizontalDisplacement float64   `json:"horizontal_displacement"`
	MaxSpeed               float64   `json:"max_speed"`
	AvgSpeed               float64   `json:"avg_speed"`
	MaxHorizontalSpeed     float64   `json:"max_horizontal_speed"`
	AvgHorizontalSpeed     float64   `json:"avg_horizontal_speed"`
	DirectionChanges       int       `json:"direction_changes"`
	FloorContactRatio      *float64  `json:"floor_contact_ratio"`
	TimeAirborneSec        *float64  `json:"time_airborne_sec"`
	AnomalyCount           int       `json:"anomaly_count"`
	CreatedAt              time.Time `json:"created_at"`
}

// SessionAnomaly is one stored anomaly row.
type SessionAnomaly struct {
	Kind        string  `json:"kind"`
	TSec        float64 `json:"t_sec"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
}

// SaveAnalysis stores one completed analysis and returns its assigned session
// ID. The session row, its anomalies and its input activity are written in a
// single transaction so a partial save never becomes visible.
func (db *DB) SaveAnalysis(ctx context.Context, sourceFile string, a *telemetry.Analysis) (string, error) {
	sessionID := uuid.New().String()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var floorRatio, timeAirborne *float64
	if a.FloorContact != nil {
		floorRatio = &a.FloorContact.Ratio
		timeAirborne = &a.FloorContact.TimeAirborne
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (
			session_id, source_file, character_type, sample_count, duration_sec,
			total_distance, horizontal_distance, displacement, horizontal_displacement,
			max_speed, avg_speed, max_horizontal_speed, avg_horizontal_speed,
			direction_changes, floor_contact_ratio, time_airborne_sec
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, sourceFile, a.CharacterType, a.SampleCount, a.Duration,
		a.Position.TotalDistance, a.Position.HorizontalDistance,
		a.Position.Displacement, a.Position.HorizontalDisplacement,
		a.Velocity.MaxSpeed, a.Velocity.AvgSpeed,
		a.Velocity.MaxHorizontalSpeed, a.Velocity.AvgHorizontalSpeed,
		a.DirectionChanges, floorRatio, timeAirborne,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	for _, anomaly := range a.Anomalies {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO session_anomalies (session_id, kind, t_sec, severity, description)
			VALUES (?, ?, ?, ?, ?)`,
			sessionID, string(anomaly.Kind), anomaly.Time, string(anomaly.Severity), anomaly.Description,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert anomaly: %w", err)
		}
	}

	for input, seconds := range a.InputActivity {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO session_inputs (session_id, input, seconds)
			VALUES (?, ?, ?)`,
			sessionID, input, seconds,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert input activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session %s: %w", sessionID, err)
	}

	return sessionID, nil
}

const sessionColumns = `
	s.session_id, s.source_file, s.character_type, s.sample_count, s.duration_sec,
	s.total_distance, s.horizontal_distance, s.displacement, s.horizontal_displacement,
	s.max_speed, s.avg_speed, s.max_horizontal_speed, s.avg_horizontal_speed,
	s.direction_changes, s.floor_contact_ratio, s.time_airborne_sec,
	(SELECT COUNT(*) FROM session_anomalies a WHERE a.session_id = s.session_id),
	s.created_at`

func scanSession(row interface{ Scan(...any) error }) (*Session, error) {
	var s Session
	err := row.Scan(
		&s.SessionID, &s.SourceFile, &s.CharacterType, &s.SampleCount, &s.DurationSec,
		&s.TotalDistance, &s.HorizontalDistance, &s.Displacement, &s.HorizontalDisplacement,
		&s.MaxSpeed, &s.AvgSpeed, &s.MaxHorizontalSpeed, &s.AvgHorizontalSpeed,
		&s.DirectionChanges, &s.FloorContactRatio, &s.TimeAirborneSec,
		&s.AnomalyCount, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSessions returns the most recently stored sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s ORDER BY s.created_at DESC, s.session_id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// GetSession returns one session by ID, or sql.ErrNoRows when absent.
func (db *DB) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.session_id = ?`,
		sessionID,
	)

	s, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return s, nil
}

// SessionAnomalies returns a session's anomalies in stored (detector) order.
func (db *DB) SessionAnomalies(ctx context.Context, sessionID string) ([]SessionAnomaly, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT kind, t_sec, severity, description
		FROM session_anomalies WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomalies for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	anomalies := []SessionAnomaly{}
	for rows.Next() {
		var a SessionAnomaly
		if err := rows.Scan(&a.Kind, &a.TSec, &a.Severity, &a.Description); err != nil {
			return nil, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		anomalies = append(anomalies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate anomalies: %w", err)
	}

	return anomalies, nil
}

// SessionInputActivity returns a session's input id to seconds-held mapping.
func (db *DB) SessionInputActivity(ctx context.Context, sessionID string) (map[string]float64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT input, seconds FROM session_inputs WHERE session_id = ?`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query input activity for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	activity := map[string]float64{}
	for rows.Next() {
		var input string
		var seconds float64
		if err := rows.Scan(&input, &seconds); err != nil {
			return nil, fmt.Errorf("failed to scan input activity: %w", err)
		}
		activity[input] = seconds
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate input activity: %w", err)
	}

	return activity, nil
}

// DeleteSession removes a session and, via foreign key cascade, its anomalies
// and input activity. Deleting an unknown ID returns sql.ErrNoRows.
func (db *DB) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
