package httpx

import (
	"encoding/json"
	"strings"
)

// validationIssue is one entry of a validation error array, the shape the
// inventory API uses when a request body fails schema checks.
type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// ProblemMessage extracts a human readable message from an error body.
// A string `detail` is returned as is; an array of validation issues is
// flattened into "msg; msg". The second result is false when the body
// carries no usable detail.
func ProblemMessage(body []byte) (string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &envelope) != nil || len(envelope.Detail) == 0 {
		return "", false
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		text = strings.TrimSpace(text)
		return text, text != ""
	}

	var issues []validationIssue
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if msg := strings.TrimSpace(issue.Msg); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; "), true
		}
	}
	return "", false
}
