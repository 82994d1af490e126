package vault

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/authykit/authy-go/internal/invoke"
)

// decodeResponse parses a successful invocation's standard output. Empty
// output yields an empty result map; anything else must be a single JSON
// object. A parse failure here is a protocol violation, not a domain error.
func decodeResponse(res invoke.Result) (map[string]any, error) {
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		return map[string]any{}, nil
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, &ProtocolError{Output: res.Stdout, Err: err}
	}
	return result, nil
}

// secretFromResponse materializes a Secret from a decoded get response.
func secretFromResponse(result map[string]any) (*Secret, error) {
	value, ok := result["value"].(string)
	if !ok {
		return nil, &ProtocolError{Err: fmt.Errorf("get response is missing a string %q field", "value")}
	}

	s := &Secret{Value: value}
	if name, ok := result["name"].(string); ok {
		s.Name = name
	}
	// encoding/json decodes all JSON numbers into float64.
	if version, ok := result["version"].(float64); ok {
		s.Version = int(version)
	}
	if created, ok := result["created"].(string); ok {
		s.Created = created
	}
	if modified, ok := result["modified"].(string); ok {
		s.Modified = modified
	}
	return s, nil
}

// summariesFromResponse materializes listing entries from a decoded list
// response, preserving the order the vault process reported.
func summariesFromResponse(result map[string]any) []SecretSummary {
	raw, ok := result["secrets"].([]any)
	if !ok {
		return []SecretSummary{}
	}

	summaries := make([]SecretSummary, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, ok := m["name"].(string)
		if !ok {
			continue
		}
		summary := SecretSummary{Name: name}
		if version, ok := m["version"].(float64); ok {
			summary.Version = int(version)
		}
		if created, ok := m["created"].(string); ok {
			summary.Created = created
		}
		if modified, ok := m["modified"].(string); ok {
			summary.Modified = modified
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
