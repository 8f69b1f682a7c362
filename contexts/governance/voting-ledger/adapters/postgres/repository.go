package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
	"tally/contexts/governance/voting-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) AddVoter(ctx context.Context, voterID string) error {
	row := voterModel{
		VoterID: strings.TrimSpace(voterID),
		AddedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrVoterExists
		}
		return r.logError("ledger_repo_add_voter_failed", err, "voter_id", row.VoterID)
	}
	return nil
}

func (r *Repository) RemoveVoter(ctx context.Context, voterID string) error {
	result := r.db.WithContext(ctx).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Delete(&voterModel{})
	if result.Error != nil {
		return r.logError("ledger_repo_remove_voter_failed", result.Error, "voter_id", strings.TrimSpace(voterID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVoterNotFound
	}
	return nil
}

func (r *Repository) Contains(ctx context.Context, voterID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voterModel{}).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("ledger_repo_contains_failed", err, "voter_id", strings.TrimSpace(voterID))
	}
	return count > 0, nil
}

func (r *Repository) ListVoters(ctx context.Context) ([]string, error) {
	var rows []voterModel
	if err := r.db.WithContext(ctx).
		Order("voter_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_voters_failed", err)
	}
	items := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.VoterID)
	}
	return items, nil
}

func (r *Repository) ScoreOf(ctx context.Context, accountID string) (int64, error) {
	var row scoreModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("ledger_repo_score_of_failed", err, "account_id", strings.TrimSpace(accountID))
	}
	return row.Score, nil
}

func (r *Repository) TotalWeight(ctx context.Context) (int64, error) {
	total, err := readTotal(r.db.WithContext(ctx))
	if err != nil {
		return 0, r.logError("ledger_repo_total_weight_failed", err)
	}
	return total, nil
}

// Apply commits the score delta and the total-weight delta inside one
// transaction so a crash can never strand half a vote.
func (r *Repository) Apply(ctx context.Context, targetID string, delta int64, totalDelta int64) (int64, error) {
	var newTotal int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accountID := strings.TrimSpace(targetID)
		var row scoreModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ?", accountID).
			First(&row).
			Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = scoreModel{AccountID: accountID, Score: delta}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&scoreModel{}).
				Where("account_id = ?", accountID).
				Update("score", row.Score+delta).Error; err != nil {
				return err
			}
		}

		total, err := readTotal(tx.Clauses(clause.Locking{Strength: "UPDATE"}))
		if err != nil {
			return err
		}
		newTotal = total + totalDelta
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{"total_weight": newTotal}),
		}).Create(&totalModel{ID: 1, TotalWeight: newTotal}).Error
	})
	if err != nil {
		return 0, r.logError("ledger_repo_apply_failed", err,
			"target_id", strings.TrimSpace(targetID),
			"delta", delta,
		)
	}
	return newTotal, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := outboxModel{
		OutboxID:     outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("ledger_repo_append_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_pending_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	stamp := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &stamp,
		})
	if result.Error != nil {
		return r.logError("ledger_repo_mark_outbox_published_failed", result.Error, "outbox_id", strings.TrimSpace(outboxID))
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/voting-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("ledger repository operation failed", fields...)
	return err
}

func readTotal(tx *gorm.DB) (int64, error) {
	var row totalModel
	err := tx.Where("id = ?", 1).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.TotalWeight, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.RegistryRepository = (*Repository)(nil)
var _ ports.LedgerRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
