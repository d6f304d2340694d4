package enums

import "fmt"

// AnalyticsEventType tags recorded product-usage events.
type AnalyticsEventType string

const (
	AnalyticsEventComparisonRun     AnalyticsEventType = "comparison_run"
	AnalyticsEventBudgetSuggested   AnalyticsEventType = "budget_suggested"
	AnalyticsEventSuggestionApplied AnalyticsEventType = "suggestion_applied"
	AnalyticsEventListAutoCreated   AnalyticsEventType = "list_auto_created"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventComparisonRun,
	AnalyticsEventBudgetSuggested,
	AnalyticsEventSuggestionApplied,
	AnalyticsEventListAutoCreated,
}

// String implements fmt.Stringer.
func (a AnalyticsEventType) String() string {
	return string(a)
}

// IsValid reports whether the event type is recognized.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts a raw string into an AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
