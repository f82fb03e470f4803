// Package extract turns a voice-note transcript into structured cycle fields
// by case-insensitive keyword matching.
package extract

import (
	"sort"
	"strings"
)

// Config holds the candidate keywords for each field. Slice order matters:
// when two keywords for a single-value field start at the same offset in the
// transcript, the one listed first wins.
type Config struct {
	Flow     []string
	Mood     []string
	Symptoms []string
	Spotting []string
}

// Result is the structured outcome of scanning one transcript. Flow and Mood
// hold at most one matched keyword; Symptoms holds every distinct match in
// order of first occurrence. RawNotes is always the transcript verbatim.
type Result struct {
	Flow     string
	Mood     string
	Symptoms []string
	Spotting bool
	RawNotes string
}

// Extract scans the transcript once per field. It is a pure function: any
// string input, including empty or garbled text, produces a valid Result.
func Extract(transcript string, cfg Config) Result {
	text := strings.ToLower(transcript)
	return Result{
		Flow:     firstMatch(text, cfg.Flow),
		Mood:     firstMatch(text, cfg.Mood),
		Symptoms: allMatches(text, cfg.Symptoms),
		Spotting: firstMatch(text, cfg.Spotting) != "",
		RawNotes: transcript,
	}
}

// firstMatch returns the candidate whose first occurrence in text starts
// earliest. Candidates at the same offset resolve in slice order.
func firstMatch(text string, candidates []string) string {
	best := ""
	bestAt := -1
	for _, kw := range candidates {
		if kw == "" {
			continue
		}
		at := strings.Index(text, strings.ToLower(kw))
		if at < 0 {
			continue
		}
		if bestAt < 0 || at < bestAt {
			best, bestAt = kw, at
		}
	}
	return best
}

// allMatches returns every candidate present in text, deduplicated, ordered
// by first occurrence. Duplicate entries in candidates count once.
func allMatches(text string, candidates []string) []string {
	type hit struct {
		kw string
		at int
	}
	var hits []hit
	seen := make(map[string]bool, len(candidates))
	for _, kw := range candidates {
		lower := strings.ToLower(kw)
		if kw == "" || seen[lower] {
			continue
		}
		at := strings.Index(text, lower)
		if at < 0 {
			continue
		}
		seen[lower] = true
		hits = append(hits, hit{kw, at})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].at < hits[j].at })

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.kw
	}
	return out
}
