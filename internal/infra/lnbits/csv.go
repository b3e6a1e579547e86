package lnbits

import (
	"regexp"
	"strings"
)

var lnurlPattern = regexp.MustCompile(`LNURL[0-9A-Za-z]+`)

// ExtractLNURLs parses a withdraw-link export into distinct LNURL strings.
// A plain CSV is one payload per line; an HTML response (seen on some
// deployments) is scanned for LNURL tokens instead. Order is preserved.
func ExtractLNURLs(export string) []string {
	text := strings.TrimSpace(export)
	if text == "" {
		return nil
	}

	var candidates []string
	if strings.Contains(strings.ToLower(text), "<html") {
		candidates = lnurlPattern.FindAllString(text, -1)
	} else {
		for _, line := range strings.Split(text, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				candidates = append(candidates, s)
			}
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := make([]string, 0, len(candidates))
	for _, u := range candidates {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique
}
