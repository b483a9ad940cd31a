package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const reportColumns = `id, reporter_id, target_type, target_id, target_owner_id, reason, description, status,
	resolution_note, resolved_by, resolved_at, created_at`

type PostgresReportRepository struct {
	db database.DBTX
}

func NewReportRepository(db database.DBTX) core.ReportRepository {
	return &PostgresReportRepository{db: db}
}

func scanReport(row pgx.Row) (*models.Report, error) {
	var rp models.Report
	err := row.Scan(&rp.ID, &rp.ReporterID, &rp.TargetType, &rp.TargetID, &rp.TargetOwnerID, &rp.Reason,
		&rp.Description, &rp.Status, &rp.ResolutionNote, &rp.ResolvedBy, &rp.ResolvedAt, &rp.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &rp, nil
}

func collectReports(rows pgx.Rows) ([]models.Report, error) {
	defer rows.Close()
	reports := []models.Report{}
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rp)
	}
	return reports, mapError(rows.Err())
}

func (r *PostgresReportRepository) Create(ctx context.Context, report *models.Report) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO app_data.reports (id, reporter_id, target_type, target_id, target_owner_id, reason,
			description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		report.ID, report.ReporterID, report.TargetType, report.TargetID, report.TargetOwnerID, report.Reason,
		report.Description, report.Status, report.CreatedAt)
	return mapError(err)
}

func (r *PostgresReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM app_data.reports WHERE id = $1`
	return scanReport(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *PostgresReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	args := []any{}
	conditions := []string{}
	argCounter := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, filter.Status)
		argCounter++
	}
	if filter.TargetType != "" {
		conditions = append(conditions, fmt.Sprintf("target_type = $%d", argCounter))
		args = append(args, filter.TargetType)
		argCounter++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	conn := database.Conn(ctx, r.db)

	var total int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM app_data.reports"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	page, limit := models.NormalizePage(filter.Page, filter.Limit)
	// Oldest first so the moderation queue is worked in order.
	query := fmt.Sprintf(`SELECT %s FROM app_data.reports%s ORDER BY created_at ASC LIMIT $%d OFFSET $%d`,
		reportColumns, where, argCounter, argCounter+1)
	args = append(args, limit, models.Offset(page, limit))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	reports, err := collectReports(rows)
	return reports, total, err
}

func (r *PostgresReportRepository) ListByReporter(ctx context.Context, reporterID string) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM app_data.reports WHERE reporter_id = $1 ORDER BY created_at DESC LIMIT 100`
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, reporterID)
	if err != nil {
		return nil, mapError(err)
	}
	return collectReports(rows)
}

func (r *PostgresReportRepository) HasOpen(ctx context.Context, reporterID string, targetType models.ReportTargetType, targetID string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM app_data.reports
			WHERE reporter_id = $1 AND target_type = $2 AND target_id = $3 AND status = 'pending'
		)`, reporterID, targetType, targetID).Scan(&exists)
	return exists, mapError(err)
}

// Resolve closes a pending report. Already resolved reports fail with ErrInvalidTransition.
func (r *PostgresReportRepository) Resolve(ctx context.Context, id string, status models.ReportStatus, note, adminID string, at time.Time) error {
	tag, err := database.Conn(ctx, r.db).Exec(ctx, `
		UPDATE app_data.reports
		SET status = $1, resolution_note = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $5 AND status = 'pending'`, status, note, adminID, at, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: report already resolved", errs.ErrInvalidTransition)
	}
	return nil
}
