package postgresadapter

import (
	"encoding/json"
	"time"

	"tally/contexts/governance/voting-ledger/ports"

	"gorm.io/gorm"
)

type voterModel struct {
	VoterID string    `gorm:"column:voter_id;primaryKey"`
	AddedAt time.Time `gorm:"column:added_at"`
}

func (voterModel) TableName() string {
	return "voters"
}

type scoreModel struct {
	AccountID string `gorm:"column:account_id;primaryKey"`
	Score     int64  `gorm:"column:score"`
}

func (scoreModel) TableName() string {
	return "reputation_scores"
}

// totalModel is a singleton row; id is always 1.
type totalModel struct {
	ID          int   `gorm:"column:id;primaryKey"`
	TotalWeight int64 `gorm:"column:total_weight"`
}

func (totalModel) TableName() string {
	return "ledger_totals"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "ledger_outbox"
}

func marshalEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

// Migrate creates or updates the ledger tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&voterModel{}, &scoreModel{}, &totalModel{}, &outboxModel{})
}
