package models

// BadgeRequirementType names the statistic a badge predicate reads.
type BadgeRequirementType string

const (
	RequirementMicroEvalCount   BadgeRequirementType = "micro_eval_count"
	RequirementEarlyBirdCount   BadgeRequirementType = "early_bird_count"
	RequirementCommentsCount    BadgeRequirementType = "comments_count"
	RequirementAllDone          BadgeRequirementType = "all_done"
	RequirementLeaderboardTop10 BadgeRequirementType = "leaderboard_top_10_percent"
)

// BadgeRequirement is a typed predicate with its threshold.
type BadgeRequirement struct {
	Type  BadgeRequirementType `json:"type"`
	Value int                  `json:"value"`
}

// Badge is a static catalog entry.
type Badge struct {
	ID          string           `json:"id"`
	Name        LocalizedText    `json:"name"`
	Icon        string           `json:"icon"`
	Description LocalizedText    `json:"description"`
	Requirement BadgeRequirement `json:"requirement"`
	Bonus       int              `json:"bonus"`
}
