package guest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

type memoryRepo struct {
	rows map[string]*Usage
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]*Usage)}
}

func (m *memoryRepo) GetOrCreate(_ context.Context, guestID string) (*Usage, error) {
	if u, ok := m.rows[guestID]; ok {
		cp := *u
		return &cp, nil
	}
	m.rows[guestID] = &Usage{GuestID: guestID, State: StateInitial}
	cp := *m.rows[guestID]
	return &cp, nil
}

func (m *memoryRepo) IncrementResponses(ctx context.Context, guestID string) (*Usage, error) {
	if _, err := m.GetOrCreate(ctx, guestID); err != nil {
		return nil, err
	}
	m.rows[guestID].ResponsesUsed++
	cp := *m.rows[guestID]
	return &cp, nil
}

func (m *memoryRepo) SetEmail(ctx context.Context, guestID, email string) (*Usage, error) {
	if _, err := m.GetOrCreate(ctx, guestID); err != nil {
		return nil, err
	}
	m.rows[guestID].Email = email
	m.rows[guestID].State = StateEmailCaptured
	cp := *m.rows[guestID]
	return &cp, nil
}

func (m *memoryRepo) SetState(_ context.Context, guestID string, state State) error {
	m.rows[guestID].State = state
	return nil
}

type memoryLeads struct {
	emails []string
}

func (m *memoryLeads) InsertLead(_ context.Context, email, _ string) error {
	m.emails = append(m.emails, email)
	return nil
}

func testService() (*Service, *memoryRepo, *memoryLeads) {
	repo := newMemoryRepo()
	leads := &memoryLeads{}
	return NewService(repo, leads, Config{FreeQuota: 3, HardQuota: 6}), repo, leads
}

func TestComputeQuota(t *testing.T) {
	cfg := Config{FreeQuota: 3, HardQuota: 6}
	tests := []struct {
		name         string
		usage        Usage
		wantLeft     int
		wantState    State
		wantEligible bool
	}{
		{"fresh guest", Usage{State: StateInitial}, 3, StateInitial, false},
		{"two used", Usage{State: StateInitial, ResponsesUsed: 2}, 1, StateInitial, false},
		{"free quota spent", Usage{State: StateInitial, ResponsesUsed: 3}, 0, StateInitial, true},
		{"email captured extends", Usage{State: StateEmailCaptured, ResponsesUsed: 3}, 3, StateEmailCaptured, false},
		{"email captured five used", Usage{State: StateEmailCaptured, ResponsesUsed: 5}, 1, StateEmailCaptured, false},
		{"hard quota reached", Usage{State: StateEmailCaptured, ResponsesUsed: 6}, 0, StateRegistrationRequired, false},
		{"hard quota without email", Usage{State: StateInitial, ResponsesUsed: 6}, 0, StateRegistrationRequired, false},
		{"terminal forces zero", Usage{State: StateRegistrationRequired, ResponsesUsed: 6}, 0, StateRegistrationRequired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ComputeQuota(tt.usage, cfg)
			assert.Equal(t, tt.wantLeft, q.ResponsesLeft, "responses left")
			assert.Equal(t, tt.wantState, q.State, "state")
			assert.Equal(t, tt.wantEligible, q.EmailCaptureEligible, "email capture eligibility")
		})
	}
}

func TestQuotaLifecycle(t *testing.T) {
	svc, _, leads := testService()
	ctx := context.Background()
	const id = "guest_abc123"

	// Three free turns.
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.CheckAllowed(ctx, id))
		_, err := svc.RecordAnswered(ctx, id)
		require.NoError(t, err)
	}

	// Free quota spent: turn rejected, email capture offered.
	err := svc.CheckAllowed(ctx, id)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeQuotaExceeded))

	q, err := svc.Status(ctx, id)
	require.NoError(t, err)
	assert.True(t, q.EmailCaptureEligible)

	// Email capture grants three more turns and records a lead.
	q, err = svc.CaptureEmail(ctx, id, "Sailor@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, StateEmailCaptured, q.State)
	assert.Equal(t, 3, q.ResponsesLeft)
	assert.Equal(t, []string{"sailor@example.com"}, leads.emails)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.CheckAllowed(ctx, id))
		_, err := svc.RecordAnswered(ctx, id)
		require.NoError(t, err)
	}

	// Hard quota reached: terminal until registration.
	q, err = svc.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StateRegistrationRequired, q.State)
	assert.Equal(t, 0, q.ResponsesLeft)
	assert.False(t, q.EmailCaptureEligible)

	err = svc.CheckAllowed(ctx, id)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeQuotaExceeded))

	_, err = svc.CaptureEmail(ctx, id, "late@example.com")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeQuotaExceeded))
}

func TestCaptureEmailTwiceRejected(t *testing.T) {
	svc, _, _ := testService()
	ctx := context.Background()

	_, err := svc.CaptureEmail(ctx, "guest_x", "one@example.com")
	require.NoError(t, err)

	_, err = svc.CaptureEmail(ctx, "guest_x", "two@example.com")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestCaptureEmailValidation(t *testing.T) {
	svc, _, _ := testService()

	_, err := svc.CaptureEmail(context.Background(), "guest_x", "   ")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestMissingGuestID(t *testing.T) {
	svc, _, _ := testService()

	err := svc.CheckAllowed(context.Background(), "")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}
