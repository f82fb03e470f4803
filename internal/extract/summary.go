package extract

import "strings"

// FormatSummary renders a Result as a short human-readable summary, one
// detail per line. Falls back to the raw notes when nothing matched.
func FormatSummary(r Result) string {
	var parts []string

	if r.Flow != "" {
		parts = append(parts, "Flow: "+titleCase(r.Flow))
	}
	if r.Spotting {
		parts = append(parts, "Spotting: Yes")
	}
	if r.Mood != "" {
		parts = append(parts, "Mood: "+titleCase(r.Mood))
	}
	if len(r.Symptoms) > 0 {
		titled := make([]string, len(r.Symptoms))
		for i, s := range r.Symptoms {
			titled[i] = titleCase(s)
		}
		parts = append(parts, "Symptoms: "+strings.Join(titled, ", "))
	}

	if len(parts) == 0 {
		if notes := strings.TrimSpace(r.RawNotes); notes != "" {
			return "Notes: " + notes
		}
		return "No specific details recorded."
	}

	return strings.Join(parts, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
