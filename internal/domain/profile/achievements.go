package profile

import (
	"time"

	"github.com/daosail/daosail-server/internal/domain/roles"
)

// Template is a predefined achievement with its unlock predicate.
type Template struct {
	ID            string
	Title         string
	TitleRu       string
	Description   string
	DescriptionRu string
	IconName      string
	Category      string
	Unlocked      func(p Profile) bool
}

// Members who joined before this date count as early adopters.
var earlyAdopterCutoff = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Templates lists every achievement the sweep evaluates. Predicates are
// monotone in the stats, so re-evaluation is safe at any time.
func Templates() []Template {
	return []Template{
		{
			ID: "first_question", Title: "First Question", TitleRu: "Первый вопрос",
			Description: "Asked your first question to the AI consultant", DescriptionRu: "Задал первый вопрос ИИ-консультанту",
			IconName: "MessageSquare", Category: "progress",
			Unlocked: func(p Profile) bool { return p.Stats.QuestionsAsked >= 1 },
		},
		{
			ID: "curious_explorer", Title: "Curious Explorer", TitleRu: "Любознательный исследователь",
			Description: "Asked 10 questions to learn more about sailing", DescriptionRu: "Задал 10 вопросов, изучая парусный спорт",
			IconName: "Compass", Category: "progress",
			Unlocked: func(p Profile) bool { return p.Stats.QuestionsAsked >= 10 },
		},
		{
			ID: "inquisitive_mind", Title: "Inquisitive Mind", TitleRu: "Пытливый ум",
			Description: "Asked 25 questions - your curiosity knows no bounds!", DescriptionRu: "Задал 25 вопросов - твоему любопытству нет границ!",
			IconName: "Brain", Category: "progress",
			Unlocked: func(p Profile) bool { return p.Stats.QuestionsAsked >= 25 },
		},
		{
			ID: "first_lesson", Title: "First Steps", TitleRu: "Первые шаги",
			Description: "Completed your first sailing lesson", DescriptionRu: "Прошел первый урок по парусному спорту",
			IconName: "BookOpen", Category: "learning",
			Unlocked: func(p Profile) bool { return p.Stats.LessonsCompleted >= 1 },
		},
		{
			ID: "dedicated_learner", Title: "Dedicated Learner", TitleRu: "Прилежный ученик",
			Description: "Completed 5 lessons - you're making great progress!", DescriptionRu: "Прошел 5 уроков - отличный прогресс!",
			IconName: "GraduationCap", Category: "learning",
			Unlocked: func(p Profile) bool { return p.Stats.LessonsCompleted >= 5 },
		},
		{
			ID: "knowledge_seeker", Title: "Knowledge Seeker", TitleRu: "Искатель знаний",
			Description: "Read 10 articles about sailing and maritime topics", DescriptionRu: "Прочитал 10 статей о парусном спорте и морских темах",
			IconName: "FileText", Category: "learning",
			Unlocked: func(p Profile) bool { return p.Stats.ArticlesRead >= 10 },
		},
		{
			ID: "community_member", Title: "Community Member", TitleRu: "Член сообщества",
			Description: "Participated in community discussions", DescriptionRu: "Принял участие в обсуждениях сообщества",
			IconName: "Users", Category: "community",
			Unlocked: func(p Profile) bool { return p.Stats.CommunityMessages >= 1 },
		},
		{
			ID: "active_contributor", Title: "Active Contributor", TitleRu: "Активный участник",
			Description: "Posted 10 messages in community discussions", DescriptionRu: "Написал 10 сообщений в обсуждениях сообщества",
			IconName: "MessageCircle", Category: "community",
			Unlocked: func(p Profile) bool { return p.Stats.CommunityMessages >= 10 },
		},
		{
			ID: "early_adopter", Title: "Early Adopter", TitleRu: "Ранний пользователь",
			Description: "Joined DAOsail in its early stages", DescriptionRu: "Присоединился к DAOsail на раннем этапе",
			IconName: "Zap", Category: "special",
			Unlocked: func(p Profile) bool { return p.JoinedAt.Before(earlyAdopterCutoff) },
		},
		{
			ID: "loyal_user", Title: "Loyal User", TitleRu: "Верный пользователь",
			Description: "Logged in for 7 consecutive days", DescriptionRu: "Заходил в систему 7 дней подряд",
			IconName: "Calendar", Category: "progress",
			Unlocked: func(p Profile) bool { return p.Stats.TotalLogins >= 7 },
		},
		{
			ID: "role_promotion_passenger", Title: "Welcome Aboard!", TitleRu: "Добро пожаловать на борт!",
			Description: "Advanced to Passenger rank", DescriptionRu: "Получил звание Пассажира",
			IconName: "Ship", Category: "progression",
			Unlocked: func(p Profile) bool { return p.Tier.AtLeast(roles.TierPassenger) && p.Tier != roles.TierAdmin },
		},
		{
			ID: "role_promotion_sailor", Title: "True Sailor", TitleRu: "Настоящий матрос",
			Description: "Advanced to Sailor rank - you're now part of the crew!", DescriptionRu: "Получил звание Матроса - теперь ты часть экипажа!",
			IconName: "Anchor", Category: "progression",
			Unlocked: func(p Profile) bool { return p.Tier.AtLeast(roles.TierSailor) && p.Tier != roles.TierAdmin },
		},
	}
}
