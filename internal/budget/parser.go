package budget

import (
	"encoding/json"
	"strings"

	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

// SuggestedItem is one model-chosen line.
type SuggestedItem struct {
	GTIN     string `json:"gtin"`
	Quantity int    `json:"quantity"`
}

// Suggestion is the decoded model reply.
type Suggestion struct {
	Items     []SuggestedItem `json:"items"`
	Reasoning string          `json:"reasoning,omitempty"`
}

// parseSuggestion decodes the model reply. Models occasionally wrap JSON in
// prose or code fences despite instructions, so a bracket-matching extraction
// runs before giving up.
func parseSuggestion(raw string) (Suggestion, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Suggestion{}, pkgerrors.New(pkgerrors.CodeDependency, "model returned empty reply")
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(trimmed), &suggestion); err != nil {
		extracted, ok := extractJSON(trimmed)
		if !ok {
			return Suggestion{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "model reply is not valid JSON")
		}
		if err := json.Unmarshal([]byte(extracted), &suggestion); err != nil {
			return Suggestion{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "model reply is not valid JSON")
		}
	}

	if len(suggestion.Items) == 0 {
		return Suggestion{}, pkgerrors.New(pkgerrors.CodeDependency, "model reply has no items")
	}
	for _, item := range suggestion.Items {
		if strings.TrimSpace(item.GTIN) == "" {
			return Suggestion{}, pkgerrors.New(pkgerrors.CodeDependency, "model reply has an empty gtin")
		}
		if item.Quantity < 1 {
			return Suggestion{}, pkgerrors.New(pkgerrors.CodeDependency, "model reply has a quantity below 1")
		}
	}
	return suggestion, nil
}

// extractJSON pulls the first balanced {...} block out of a noisy reply.
func extractJSON(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
