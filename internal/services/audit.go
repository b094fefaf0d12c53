package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
	"github.com/baharkarakas/kuota-backend/internal/worker"
)

// Auditor writes audit rows on the worker pool. When the pool is missing or
// full the write happens inline so nothing is lost.
type Auditor struct {
	r   repo.AuditLogs
	wp  *worker.Pool
	log *slog.Logger
}

func NewAuditor(r repo.AuditLogs, wp *worker.Pool, log *slog.Logger) *Auditor {
	return &Auditor{r: r, wp: wp, log: log}
}

func (a *Auditor) Record(entityType, entityID, action string, details map[string]any) {
	if a == nil {
		return
	}
	l := models.AuditLog{
		EntityType: entityType,
		EntityID:   &entityID,
		Action:     action,
		Details:    details,
	}
	write := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.r.Create(ctx, l); err != nil {
			a.log.Error("audit write failed", "action", action, "entity_id", entityID, "err", err)
		}
	}
	if a.wp == nil || !a.wp.Submit(write) {
		write()
	}
}
