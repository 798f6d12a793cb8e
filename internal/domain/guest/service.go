package guest

import (
	"context"
	"strings"

	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// Service enforces the guest quota on the server side. Handlers call
// CheckAllowed before a turn and RecordAnswered after one.
type Service struct {
	repo  Repository
	leads LeadStore
	cfg   Config
}

func NewService(repo Repository, leads LeadStore, cfg Config) *Service {
	if cfg.FreeQuota <= 0 {
		cfg.FreeQuota = 3
	}
	if cfg.HardQuota < cfg.FreeQuota {
		cfg.HardQuota = cfg.FreeQuota * 2
	}
	return &Service{repo: repo, leads: leads, cfg: cfg}
}

// Status returns the guest's current quota view, creating the usage row
// on first sight.
func (s *Service) Status(ctx context.Context, guestID string) (*Quota, error) {
	usage, err := s.getUsage(ctx, guestID)
	if err != nil {
		return nil, err
	}
	q := ComputeQuota(*usage, s.cfg)
	return &q, nil
}

// CheckAllowed rejects the turn when the guest has no allowance left.
func (s *Service) CheckAllowed(ctx context.Context, guestID string) error {
	usage, err := s.getUsage(ctx, guestID)
	if err != nil {
		return err
	}
	q := ComputeQuota(*usage, s.cfg)
	if q.State == StateRegistrationRequired {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeQuotaExceeded,
			"guest quota exhausted, registration required", nil, "")
	}
	if q.ResponsesLeft <= 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeQuotaExceeded,
			"guest quota exhausted", nil, "")
	}
	return nil
}

// RecordAnswered counts one answered turn and persists any resulting
// state transition. The increment is atomic in the repository.
func (s *Service) RecordAnswered(ctx context.Context, guestID string) (*Quota, error) {
	usage, err := s.repo.IncrementResponses(ctx, guestID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "record guest turn")
	}

	q := ComputeQuota(*usage, s.cfg)
	if q.State != usage.State {
		if err := s.repo.SetState(ctx, guestID, q.State); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "persist guest state")
		}
	}
	return &q, nil
}

// CaptureEmail records the guest's email, stores a lead and extends the
// allowance to the hard ceiling. Capturing twice is rejected.
func (s *Service) CaptureEmail(ctx context.Context, guestID, email string) (*Quota, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"email is required", nil, "")
	}

	usage, err := s.getUsage(ctx, guestID)
	if err != nil {
		return nil, err
	}
	switch usage.State {
	case StateEmailCaptured:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"email already captured for this guest", nil, "")
	case StateRegistrationRequired:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeQuotaExceeded,
			"guest quota exhausted, registration required", nil, "")
	}

	if err := s.leads.InsertLead(ctx, email, "guest_quota"); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "store email lead")
	}
	updated, err := s.repo.SetEmail(ctx, guestID, email)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "persist guest email")
	}

	q := ComputeQuota(*updated, s.cfg)
	return &q, nil
}

func (s *Service) getUsage(ctx context.Context, guestID string) (*Usage, error) {
	if strings.TrimSpace(guestID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"guest id is required", nil, "")
	}
	usage, err := s.repo.GetOrCreate(ctx, guestID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load guest usage")
	}
	return usage, nil
}
