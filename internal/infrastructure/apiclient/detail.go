package apiclient

import (
	"encoding/json"
	"strings"
)

// errorBody covers both error envelopes the API may use: {"detail": ...}
// where detail is a string or a list of {"msg": ...} entries, and
// {"error": "..."}.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

type detailEntry struct {
	Msg string `json:"msg"`
}

// parseDetail extracts the human-readable reason from an error body. It
// returns "" when the body carries none.
func parseDetail(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return s
		}
		var entries []detailEntry
		if err := json.Unmarshal(body.Detail, &entries); err == nil {
			msgs := make([]string, 0, len(entries))
			for _, e := range entries {
				if e.Msg != "" {
					msgs = append(msgs, e.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return body.Error
}
