// Package guest tracks the unauthenticated chat allowance. A visitor gets
// a small free quota, may extend it once by leaving an email, and is then
// required to register. Authentication makes the whole mechanism moot.
package guest

import (
	"context"
	"time"
)

// State is the quota lifecycle stage for one guest.
type State string

const (
	StateInitial              State = "initial"
	StateEmailCaptured        State = "email_captured"
	StateRegistrationRequired State = "registration_required"
)

// Usage is the persisted counter row for one guest id.
type Usage struct {
	GuestID       string
	ResponsesUsed int
	Email         string
	State         State
	UpdatedAt     time.Time
}

// Quota is the client-facing view of a guest's remaining allowance.
type Quota struct {
	GuestID              string `json:"guest_id"`
	ResponsesUsed        int    `json:"responses_used"`
	ResponsesLeft        int    `json:"responses_left"`
	State                State  `json:"state"`
	EmailCaptureEligible bool   `json:"email_capture_eligible"`
}

// Config carries the two quota ceilings. Email capture grants the
// difference between them; the hard quota is terminal until sign-up.
type Config struct {
	FreeQuota int
	HardQuota int
}

// Repository persists guest usage. Increment must be atomic at the data
// layer; concurrent turns from one guest must not lose counts. SetEmail
// records the email and moves the guest to StateEmailCaptured.
type Repository interface {
	GetOrCreate(ctx context.Context, guestID string) (*Usage, error)
	IncrementResponses(ctx context.Context, guestID string) (*Usage, error)
	SetEmail(ctx context.Context, guestID, email string) (*Usage, error)
	SetState(ctx context.Context, guestID string, state State) error
}

// LeadStore records captured emails. Duplicate emails are a no-op.
type LeadStore interface {
	InsertLead(ctx context.Context, email, source string) error
}

// ComputeQuota derives the visible quota from a usage row. Pure.
func ComputeQuota(u Usage, cfg Config) Quota {
	allowance := cfg.FreeQuota
	if u.State == StateEmailCaptured {
		allowance = cfg.HardQuota
	}

	state := u.State
	if u.ResponsesUsed >= cfg.HardQuota {
		state = StateRegistrationRequired
	}

	left := allowance - u.ResponsesUsed
	if left < 0 || state == StateRegistrationRequired {
		left = 0
	}

	return Quota{
		GuestID:              u.GuestID,
		ResponsesUsed:        u.ResponsesUsed,
		ResponsesLeft:        left,
		State:                state,
		EmailCaptureEligible: state == StateInitial && u.ResponsesUsed >= cfg.FreeQuota,
	}
}
