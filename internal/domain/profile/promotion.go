package profile

import (
	"github.com/daosail/daosail-server/internal/domain/roles"
)

// TierRequirements are the thresholds for reaching the next tier. A zero
// field means the dimension is not required for that step. Promotion
// requires every configured threshold simultaneously.
type TierRequirements struct {
	Questions int `json:"questions,omitempty"`
	Lessons   int `json:"lessons,omitempty"`
	Articles  int `json:"articles,omitempty"`
	Community int `json:"community,omitempty"`
}

// RequirementsForNext returns the thresholds for promoting out of tier,
// or false when the tier has no promotion step.
func RequirementsForNext(tier roles.Tier) (TierRequirements, bool) {
	switch tier {
	case roles.TierInterested:
		return TierRequirements{Questions: 10, Lessons: 2, Articles: 5}, true
	case roles.TierPassenger:
		return TierRequirements{Questions: 25, Lessons: 5, Articles: 10, Community: 10}, true
	default:
		return TierRequirements{}, false
	}
}

// MetBy reports whether stats satisfy every configured threshold.
func (r TierRequirements) MetBy(s Stats) bool {
	if r.Questions > 0 && s.QuestionsAsked < r.Questions {
		return false
	}
	if r.Lessons > 0 && s.LessonsCompleted < r.Lessons {
		return false
	}
	if r.Articles > 0 && s.ArticlesRead < r.Articles {
		return false
	}
	if r.Community > 0 && s.CommunityMessages < r.Community {
		return false
	}
	return true
}

// EvaluatePromotion returns the tier the profile should hold after one
// evaluation step: at most one tier up, never down.
func EvaluatePromotion(tier roles.Tier, s Stats) (roles.Tier, bool) {
	req, ok := RequirementsForNext(tier)
	if !ok {
		return tier, false
	}
	if !req.MetBy(s) {
		return tier, false
	}
	return tier.Next(), true
}

// ProgressPercent reports averaged progress toward the next tier, 100 at
// the top of the ladder.
func ProgressPercent(tier roles.Tier, s Stats) int {
	req, ok := RequirementsForNext(tier)
	if !ok {
		return 100
	}

	total, count := 0.0, 0
	dims := []struct {
		have, need int
	}{
		{s.QuestionsAsked, req.Questions},
		{s.LessonsCompleted, req.Lessons},
		{s.ArticlesRead, req.Articles},
		{s.CommunityMessages, req.Community},
	}
	for _, d := range dims {
		if d.need == 0 {
			continue
		}
		p := float64(d.have) / float64(d.need) * 100
		if p > 100 {
			p = 100
		}
		total += p
		count++
	}
	if count == 0 {
		return 100
	}
	return int(total / float64(count))
}
