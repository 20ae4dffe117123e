package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every persisted domain type
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries identity and audit timestamps. IDs are generated in the
// application so aggregates can link child rows before anything is saved.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity returns a BaseEntity with a fresh ID and both timestamps set
// to the current time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// GetID implements Entity
func (e *BaseEntity) GetID() uuid.UUID { return e.ID }

// GetCreatedAt implements Entity
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }

// GetUpdatedAt implements Entity
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }
