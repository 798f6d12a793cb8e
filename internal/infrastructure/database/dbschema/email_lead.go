package dbschema

import (
	"time"

	"github.com/daosail/daosail-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(EmailLead{})
}

// EmailLead is one captured email. Unique per email and source so a
// repeated capture never produces a second row.
type EmailLead struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Email     string    `gorm:"type:varchar(320);not null;uniqueIndex:ux_email_leads_email_source"`
	Source    string    `gorm:"type:varchar(64);not null;default:'guest_quota';uniqueIndex:ux_email_leads_email_source"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (EmailLead) TableName() string {
	return "email_leads"
}
