// Package assistant defines the club's chat personas and assembles the
// system prompt for a turn.
package assistant

import (
	"github.com/daosail/daosail-server/internal/domain/roles"
)

// Type identifies a chat persona.
type Type string

const (
	TypeNavigator    Type = "navigator"
	TypeSkipper      Type = "skipper"
	TypeSailingCoach Type = "sailing_coach"
	TypeDAOAdvisor   Type = "dao_advisor"
	TypeAIGuide      Type = "ai_guide"
	TypePersonal     Type = "personal"
	TypeSteward      Type = "steward"
)

// DefaultType is the fallback persona for unknown assistant identifiers.
const DefaultType = TypeNavigator

// Parse resolves an assistant identifier to a known persona. Unknown
// identifiers fall back to the navigator persona.
func Parse(id string) Type {
	switch Type(id) {
	case TypeNavigator, TypeSkipper, TypeSailingCoach, TypeDAOAdvisor,
		TypeAIGuide, TypePersonal, TypeSteward:
		return Type(id)
	default:
		return DefaultType
	}
}

// RetrievalCategories returns the knowledge categories searched for the
// persona, or nil when the persona uses the broad steward-style search.
func (t Type) RetrievalCategories() []string {
	switch t {
	case TypeNavigator:
		return []string{"sailing_basics", "navigation", "weather", "equipment"}
	case TypeSkipper, TypeSailingCoach:
		return []string{"safety", "crew_management", "emergency", "racing"}
	default:
		return nil
	}
}

// StrictGrounding reports whether the persona must answer only from
// retrieved context and refuse otherwise.
func (t Type) StrictGrounding() bool {
	return t == TypeSteward
}

// Info is catalog metadata for a persona, used by the assistant listing
// endpoint.
type Info struct {
	ID             Type       `json:"id"`
	Title          string     `json:"title"`
	TitleRu        string     `json:"title_ru"`
	Specialization string     `json:"specialization"`
	Available      bool       `json:"available"`
	RequiresAuth   bool       `json:"requires_auth"`
	MinTier        roles.Tier `json:"-"`
	MinTierSlug    string     `json:"min_tier,omitempty"`
}

// Catalog lists every persona with its availability rules.
func Catalog() []Info {
	return []Info{
		{ID: TypeNavigator, Title: "Digital Club Assistant", TitleRu: "ЦПК", Specialization: "General guidance and navigation", Available: true},
		{ID: TypeSailingCoach, Title: "Sailing Instructor", TitleRu: "Шкипер Инструктор", Specialization: "Sailing techniques and training", Available: true},
		{ID: TypeDAOAdvisor, Title: "DAO Skipper", TitleRu: "Шкипер ДАО", Specialization: "DAO governance and voting", Available: true},
		{ID: TypeAIGuide, Title: "Skipper Partner", TitleRu: "Шкипер Партнер", Specialization: "AI technology and automation", Available: false, MinTier: roles.TierPartner, MinTierSlug: roles.SlugPartner},
		{ID: TypePersonal, Title: "Skipper Companion", TitleRu: "Шкипер Компаньон", Specialization: "Personal assistance and organization", Available: false, RequiresAuth: true, MinTier: roles.TierPassenger, MinTierSlug: roles.SlugPassenger},
		{ID: TypeSteward, Title: "Steward", TitleRu: "Стюард", Specialization: "Administrative support and services", Available: true},
	}
}
