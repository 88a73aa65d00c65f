// internal/store/reports.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/models"
)

// InsertReport persists an assembled health-check report. Reports are
// immutable after creation.
func (s *Store) InsertReport(ctx context.Context, report *models.HealthCheckResult) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return cerrors.NewReportInsertFailedError(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO health_check_reports (report_id, created_at, overall_score, payload, views)
		VALUES ($1, $2, $3, $4, 0)`,
		report.ReportID, report.CreatedAt, report.OverallScore, payload)
	if err != nil {
		return cerrors.NewReportInsertFailedError(err)
	}
	return nil
}

// GetReport retrieves a report by its exact ID.
func (s *Store) GetReport(ctx context.Context, reportID string) (*models.HealthCheckResult, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM health_check_reports WHERE report_id = $1`, reportID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cerrors.NewReportNotFoundError(reportID)
		}
		return nil, cerrors.NewQueryExecutionFailedError("get-report", err)
	}

	var report models.HealthCheckResult
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, cerrors.NewQueryExecutionFailedError("get-report", err)
	}
	return &report, nil
}

// IncrementReportViews bumps the append-only view counter, the one mutation
// a stored report permits. Callers treat failure as best-effort.
func (s *Store) IncrementReportViews(ctx context.Context, reportID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE health_check_reports SET views = views + 1 WHERE report_id = $1`, reportID)
	return err
}
