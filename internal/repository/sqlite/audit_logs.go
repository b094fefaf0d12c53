package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/models"
)

type auditLogsRepo struct{ db *sql.DB }

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	var details any
	if l.Details != nil {
		b, err := json.Marshal(l.Details)
		if err != nil {
			return err
		}
		details = string(b)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs(entity_type, entity_id, action, details, created_at) VALUES(?,?,?,?,?)`,
		l.EntityType, l.EntityID, l.Action, details, formatTime(time.Now()))
	return mapErr(err)
}

func (r *auditLogsRepo) List(ctx context.Context, entityType string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, details, created_at
		   FROM audit_logs
		  WHERE entity_type=?
		  ORDER BY id DESC
		  LIMIT ?`, entityType, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.AuditLog
	for rows.Next() {
		var (
			l       models.AuditLog
			details sql.NullString
			created string
		)
		if err := rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.Action, &details, &created); err != nil {
			return nil, mapErr(err)
		}
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &l.Details); err != nil {
				return nil, err
			}
		}
		if l.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, mapErr(rows.Err())
}
