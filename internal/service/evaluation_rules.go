package service

import (
	"strings"

	"github.com/noah-isme/pulse-api/internal/models"
)

// CommentField is the optional free-text answer that earns the comment bonus.
const CommentField = "key_takeaway"

var evaluationRequiredFields = map[models.EvaluationType][]string{
	models.EvaluationDay1:  {"logistics_rating", "schedule_balanced"},
	models.EvaluationDay2:  {"logistics_rating", "schedule_balanced"},
	models.EvaluationFinal: {"overall_rating", "most_impactful_thing", "network_feeling"},
}

var microQuestionTemplates = map[models.ActivityType][]string{
	models.ActivityPlenary:  {"relevance", "clarity", "actionable_idea"},
	models.ActivityPanel:    {"quality", "diversity", "recommend"},
	models.ActivityWorkshop: {"animation", "collaboration", "format"},
	models.ActivityBreak:    {"networking", "contacts"},
}

// RequiredEvaluationFields lists the mandatory answers of a gated evaluation in check order.
func RequiredEvaluationFields(evalType models.EvaluationType) []string {
	return append([]string(nil), evaluationRequiredFields[evalType]...)
}

// RequiredMicroQuestions lists the mandatory answers for an activity type. Unknown types use the plenary template.
func RequiredMicroQuestions(activityType models.ActivityType) []string {
	questions, ok := microQuestionTemplates[activityType]
	if !ok {
		questions = microQuestionTemplates[models.ActivityPlenary]
	}
	return append([]string(nil), questions...)
}

// hasComment reports whether the optional comment carries non-whitespace text.
func hasComment(responses models.Responses) bool {
	return strings.TrimSpace(responses.Text(CommentField)) != ""
}

// firstMissing returns the first field in list order that is unanswered.
func firstMissing(responses models.Responses, fields []string) (string, bool) {
	for _, field := range fields {
		if isUnanswered(responses[field]) {
			return field, true
		}
	}
	return "", false
}

// isUnanswered treats falsy answers as missing: nil, blank strings, false and
// zero. A required yes/no field therefore only passes when answered true, and a
// required numeric field rejects 0.
func isUnanswered(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case float32:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	default:
		return false
	}
}
