package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/v0xg/checkoutpage/internal/crawler"
)

const systemPrompt = `You repair CSS selectors of a browser test page object after the page markup changed.

You will receive:
1. A form map of the live page: every form control with its selector, tag, type, id, name, label, classes and visibility
2. A list of broken locators: a logical name (e.g. "shipping_city") and the selector that no longer matches

For each broken locator, pick the control of the form map that the logical name most plausibly refers to and
return its selector. Prefer ids, then name attributes. Logical names prefixed with "shipping_" or "billing_"
belong to the shipping or billing address form respectively; never cross them.

Some controls only render after an interaction (e.g. a province field after a country is chosen). If no
control fits a locator, leave that locator out rather than guessing.

Output a single JSON object mapping logical names to selectors, for example:
{"shipping_city": "#checkout_shippingAddress_city", "login_button": "button.login"}

Respond ONLY with the JSON object, no explanation or markdown.`

func buildUserPrompt(formMap *crawler.FormMap, broken []BrokenLocator) (string, error) {
	formMapJSON, err := json.MarshalIndent(formMap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal form map: %w", err)
	}
	brokenJSON, err := json.MarshalIndent(broken, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal broken locators: %w", err)
	}
	return "Form map:\n" + string(formMapJSON) + "\n\nBroken locators:\n" + string(brokenJSON), nil
}

// parseSuggestions extracts and parses a JSON object from a response that may contain surrounding text.
// Suggestions for names that were not asked about are dropped.
func parseSuggestions(response string, broken []BrokenLocator) (map[string]string, error) {
	var raw map[string]string
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		obj, err := extractObject(response)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(obj), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
		}
	}

	suggestions := make(map[string]string, len(broken))
	for _, b := range broken {
		if sel := strings.TrimSpace(raw[b.Name]); sel != "" {
			suggestions[b.Name] = sel
		}
	}
	return suggestions, nil
}

// extractObject returns the first balanced {...} block of s, ignoring braces inside strings
func extractObject(s string) (string, error) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("no matching closing brace found")
}
