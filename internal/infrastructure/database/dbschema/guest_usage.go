package dbschema

import (
	"time"

	"github.com/daosail/daosail-server/internal/domain/guest"
	"github.com/daosail/daosail-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(GuestUsage{})
}

// GuestUsage is the quota counter row for one anonymous visitor.
type GuestUsage struct {
	GuestID       string    `gorm:"column:guest_id;type:varchar(64);primaryKey"`
	ResponsesUsed int       `gorm:"not null;default:0"`
	Email         *string   `gorm:"type:varchar(320)"`
	State         string    `gorm:"type:varchar(32);not null;default:'initial'"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (GuestUsage) TableName() string {
	return "guest_usage"
}

// EtoD converts a schema row back to the domain representation.
func (g *GuestUsage) EtoD() *guest.Usage {
	if g == nil {
		return nil
	}

	out := &guest.Usage{
		GuestID:       g.GuestID,
		ResponsesUsed: g.ResponsesUsed,
		State:         guest.State(g.State),
		UpdatedAt:     g.UpdatedAt,
	}
	if g.Email != nil {
		out.Email = *g.Email
	}
	return out
}
