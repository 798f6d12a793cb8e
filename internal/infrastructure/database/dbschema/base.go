package dbschema

import "time"

// BaseModel carries the numeric surrogate key and timestamps shared by
// append-style tables.
type BaseModel struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}
