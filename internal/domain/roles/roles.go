// Package roles defines the club membership tiers and the visibility
// rules derived from them. Tiers form a total order; promotion only ever
// moves upward.
package roles

// Tier is a membership level. The zero value is the public tier.
type Tier int

const (
	TierPublic Tier = iota
	TierInterested
	TierPassenger
	TierSailor
	TierPartner
	TierAdmin
)

// Slugs used in knowledge-document access lists and API payloads.
const (
	SlugPublic     = "public"
	SlugInterested = "interested"
	SlugPassenger  = "passenger"
	SlugSailor     = "sailor"
	SlugPartner    = "partner"
	SlugAdmin      = "admin"
)

var tierSlugs = map[Tier]string{
	TierPublic:     SlugPublic,
	TierInterested: SlugInterested,
	TierPassenger:  SlugPassenger,
	TierSailor:     SlugSailor,
	TierPartner:    SlugPartner,
	TierAdmin:      SlugAdmin,
}

// labelTable maps stored role labels to tiers. The product historically
// stored Russian display labels, so both forms are accepted.
var labelTable = map[string]Tier{
	SlugInterested:   TierInterested,
	SlugPassenger:    TierPassenger,
	SlugSailor:       TierSailor,
	SlugPartner:      TierPartner,
	SlugAdmin:        TierAdmin,
	"Интересующийся": TierInterested,
	"Пассажир":       TierPassenger,
	"Матрос":         TierSailor,
	"Партнер":        TierPartner,
}

// ParseTier resolves a stored role label to a tier. Unknown labels resolve
// to the public tier so an unrecognized role can never widen access.
func ParseTier(label string) Tier {
	if t, ok := labelTable[label]; ok {
		return t
	}
	return TierPublic
}

// String returns the tier slug.
func (t Tier) String() string {
	if s, ok := tierSlugs[t]; ok {
		return s
	}
	return SlugPublic
}

// DisplayLabel returns the Russian product label for the tier.
func (t Tier) DisplayLabel() string {
	switch t {
	case TierInterested:
		return "Интересующийся"
	case TierPassenger:
		return "Пассажир"
	case TierSailor:
		return "Матрос"
	case TierPartner:
		return "Партнер"
	case TierAdmin:
		return "admin"
	default:
		return SlugPublic
	}
}

// AccessibleRoles returns the inclusive, lowest-first list of access slugs
// the tier may read. Every tier can read public content; higher tiers add
// their own slug and everything below it.
func (t Tier) AccessibleRoles() []string {
	switch t {
	case TierAdmin:
		return []string{SlugPublic, SlugPassenger, SlugSailor, SlugPartner, SlugAdmin}
	case TierPartner:
		return []string{SlugPublic, SlugPassenger, SlugSailor, SlugPartner}
	case TierSailor:
		return []string{SlugPublic, SlugPassenger, SlugSailor}
	case TierPassenger:
		return []string{SlugPublic, SlugPassenger}
	default:
		return []string{SlugPublic}
	}
}

// Next returns the tier one step above t, or t itself at the top of the
// member ladder. Admin is assigned out of band and is never a promotion
// target.
func (t Tier) Next() Tier {
	switch t {
	case TierInterested:
		return TierPassenger
	case TierPassenger:
		return TierSailor
	case TierSailor:
		return TierPartner
	default:
		return t
	}
}

// AtLeast reports whether t is equal to or above other.
func (t Tier) AtLeast(other Tier) bool {
	return t >= other
}
