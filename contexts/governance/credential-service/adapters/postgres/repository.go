package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tally/contexts/governance/credential-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db         *gorm.DB
	baseSerial uint64
	logger     *slog.Logger
}

func NewRepository(db *gorm.DB, baseSerial uint64, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:         db,
		baseSerial: baseSerial,
		logger:     logger,
	}
}

// NextSerial reserves the next serial through a single counter row, locked
// for the duration of the transaction so two mints can never share a number.
func (r *Repository) NextSerial(ctx context.Context) (uint64, error) {
	var serial uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row counterModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", 1).
			First(&row).
			Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = counterModel{ID: 1, NextSerial: r.baseSerial}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}
		serial = row.NextSerial
		return tx.Model(&counterModel{}).
			Where("id = ?", 1).
			Update("next_serial", row.NextSerial+1).
			Error
	})
	if err != nil {
		return 0, r.logError("credential_repo_next_serial_failed", err)
	}
	return serial, nil
}

func (r *Repository) SaveToken(ctx context.Context, token ports.Token) error {
	row := tokenModel{
		Serial:   token.Serial,
		OwnerID:  strings.TrimSpace(token.OwnerID),
		IssuedAt: token.IssuedAt.UTC(),
	}
	if row.IssuedAt.IsZero() {
		row.IssuedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("credential_repo_save_token_failed", err,
			"owner_id", row.OwnerID,
			"serial", row.Serial,
		)
	}
	return nil
}

func (r *Repository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&tokenModel{}).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("credential_repo_count_by_owner_failed", err, "owner_id", strings.TrimSpace(ownerID))
	}
	return int(count), nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]ports.Token, error) {
	var rows []tokenModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		Order("serial ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("credential_repo_list_by_owner_failed", err, "owner_id", strings.TrimSpace(ownerID))
	}
	items := make([]ports.Token, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Token{
			Serial:   row.Serial,
			OwnerID:  row.OwnerID,
			IssuedAt: row.IssuedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/credential-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("credential repository operation failed", fields...)
	return err
}

type counterModel struct {
	ID         int    `gorm:"column:id;primaryKey"`
	NextSerial uint64 `gorm:"column:next_serial"`
}

func (counterModel) TableName() string {
	return "credential_counters"
}

type tokenModel struct {
	Serial   uint64    `gorm:"column:serial;primaryKey"`
	OwnerID  string    `gorm:"column:owner_id"`
	IssuedAt time.Time `gorm:"column:issued_at"`
}

func (tokenModel) TableName() string {
	return "credential_tokens"
}

var _ ports.TokenRepository = (*Repository)(nil)

// Migrate creates or updates the credential tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&counterModel{}, &tokenModel{})
}
