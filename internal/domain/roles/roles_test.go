package roles

import (
	"reflect"
	"testing"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Tier
	}{
		{"slug interested", "interested", TierInterested},
		{"slug passenger", "passenger", TierPassenger},
		{"slug sailor", "sailor", TierSailor},
		{"slug partner", "partner", TierPartner},
		{"slug admin", "admin", TierAdmin},
		{"russian interested", "Интересующийся", TierInterested},
		{"russian passenger", "Пассажир", TierPassenger},
		{"russian sailor", "Матрос", TierSailor},
		{"russian partner", "Партнер", TierPartner},
		{"unknown label", "commodore", TierPublic},
		{"empty label", "", TierPublic},
		{"case mismatch is unknown", "Passenger", TierPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTier(tt.label); got != tt.want {
				t.Errorf("ParseTier(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestAccessibleRoles(t *testing.T) {
	tests := []struct {
		name string
		tier Tier
		want []string
	}{
		{"public", TierPublic, []string{"public"}},
		{"interested sees public only", TierInterested, []string{"public"}},
		{"passenger", TierPassenger, []string{"public", "passenger"}},
		{"sailor", TierSailor, []string{"public", "passenger", "sailor"}},
		{"partner", TierPartner, []string{"public", "passenger", "sailor", "partner"}},
		{"admin", TierAdmin, []string{"public", "passenger", "sailor", "partner", "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tier.AccessibleRoles()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AccessibleRoles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessibleRolesUnknownLabelFailsClosed(t *testing.T) {
	got := ParseTier("some-made-up-role").AccessibleRoles()
	want := []string{"public"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unknown label resolved to %v, want %v", got, want)
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		tier Tier
		want Tier
	}{
		{TierInterested, TierPassenger},
		{TierPassenger, TierSailor},
		{TierSailor, TierPartner},
		{TierPartner, TierPartner},
		{TierAdmin, TierAdmin},
		{TierPublic, TierPublic},
	}

	for _, tt := range tests {
		if got := tt.tier.Next(); got != tt.want {
			t.Errorf("%v.Next() = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestOrdering(t *testing.T) {
	order := []Tier{TierPublic, TierInterested, TierPassenger, TierSailor, TierPartner, TierAdmin}
	for i := 1; i < len(order); i++ {
		if !order[i].AtLeast(order[i-1]) {
			t.Errorf("%v should be at least %v", order[i], order[i-1])
		}
		if order[i-1].AtLeast(order[i]) {
			t.Errorf("%v should not be at least %v", order[i-1], order[i])
		}
	}
}
