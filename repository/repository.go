// Package repository owns the persistence and consistency model for
// inspections and their dependents (photos, observations, signature).
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by lookups that match nothing.
	ErrNotFound = errors.New("inspection not found")

	// ErrNoMatch is returned by Sign when the token is unknown, expired out
	// of the table, or the inspection is already signed. It is a business
	// outcome, not an infrastructure failure.
	ErrNoMatch = errors.New("no inspection awaiting signature for token")
)

// Recorder receives a best-effort snapshot of every completed save. A nil
// Recorder disables backups.
type Recorder interface {
	Record(token string, inspectionID uint, payload any) (string, error)
}

// InspectionRepository encapsulates every statement touching the vistorias,
// fotos_vistoria and observacoes_fotos_vistoria tables. It is constructed
// explicitly with its database handle; there is no package-level state.
type InspectionRepository struct {
	db       *gorm.DB
	tokenTTL time.Duration
	recorder Recorder
	now      func() time.Time
}

// New builds a repository over db. tokenTTL is the signing window fixed into
// token_expira_em at creation; it is the single source of truth for expiry.
func New(db *gorm.DB, tokenTTL time.Duration, recorder Recorder) *InspectionRepository {
	return &InspectionRepository{
		db:       db,
		tokenTTL: tokenTTL,
		recorder: recorder,
		now:      time.Now,
	}
}

// withDB returns a copy of the repository bound to another handle, used to
// scope operations to a transaction.
func (r *InspectionRepository) withDB(db *gorm.DB) *InspectionRepository {
	clone := *r
	clone.db = db
	return &clone
}

// Ping checks database reachability for the health endpoint.
func (r *InspectionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
