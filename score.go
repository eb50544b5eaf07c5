package trellis

import (
	"fmt"
	"strings"
)

// Status bucket thresholds, monotonic by construction.
const (
	doneThreshold   = 90
	reviewThreshold = 60
	doingThreshold  = 20
)

// statusFor buckets a clamped score into a lifecycle status.
func statusFor(score int) PhaseStatus {
	switch {
	case score >= doneThreshold:
		return StatusDone
	case score >= reviewThreshold:
		return StatusReview
	case score >= doingThreshold:
		return StatusDoing
	case score > 0:
		return StatusTodo
	default:
		return StatusBacklog
	}
}

// clampScore bounds a running total to [0,100]. Rubrics are authored to sum
// to at most 100; the clamp is defensive.
func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// matchRubric selects the first registry entry whose keywords match the
// phase title, case-insensitive substring. nil means no category matched
// and the generic rubric applies.
func matchRubric(title string) *rubricEntry {
	t := strings.ToLower(title)
	for i := range rubricRegistry {
		for _, k := range rubricRegistry[i].keywords {
			if strings.Contains(t, k) {
				return &rubricRegistry[i]
			}
		}
	}
	return nil
}

// ScorePhase evaluates the rubric selected by the phase title against the
// given inputs. Purely a function of its arguments: no I/O, no stored
// state. The caller persists the result.
func ScorePhase(title string, in ScoreInput) PhaseProgress {
	entry := matchRubric(title)
	if entry == nil {
		return scoreGeneric(in)
	}

	res := PhaseProgress{Category: entry.category}
	total := 0
	for _, c := range entry.checks {
		if c.pass(in) {
			total += c.points
			res.Evidence = append(res.Evidence, c.evidence(in))
		} else {
			res.Missing = append(res.Missing, c.missing)
		}
	}
	res.Score = clampScore(total)
	res.Status = statusFor(res.Score)
	return res
}

// scoreGeneric handles titles that match no category. The score is capped
// at twice the code-file count, so an empty workspace can never look
// finished regardless of which generic checks pass.
func scoreGeneric(in ScoreInput) PhaseProgress {
	res := PhaseProgress{Category: "generic"}
	codeFiles := in.Stats.Source + in.Stats.Test

	checks := []check{
		{30, func(in ScoreInput) bool { return in.Stats.Source > 0 },
			func(in ScoreInput) string { return fmt.Sprintf("%d source files", in.Stats.Source) },
			"no source files"},
		{30, func(in ScoreInput) bool { return in.EdgeCount > 0 },
			func(in ScoreInput) string { return fmt.Sprintf("%d internal import edges", in.EdgeCount) },
			"no internal import edges"},
		{20, func(in ScoreInput) bool { return in.Markers.Readme }, ev("README present"), "no README"},
		{20, func(in ScoreInput) bool { return len(in.Scripts) > 0 }, ev("build scripts defined"), "no scripts in manifest"},
	}

	total := 0
	for _, c := range checks {
		if c.pass(in) {
			total += c.points
			res.Evidence = append(res.Evidence, c.evidence(in))
		} else {
			res.Missing = append(res.Missing, c.missing)
		}
	}
	if limit := 2 * codeFiles; total > limit {
		total = limit
	}
	res.Score = clampScore(total)
	res.Status = statusFor(res.Score)
	return res
}
