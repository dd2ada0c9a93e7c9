package analyzer

import (
	"errors"
	"fmt"

	"github.com/yutawtr1214/tubesum/internal/models"
)

// ErrAllDropped means structure was extracted but every entry failed
// timestamp validation.
var ErrAllDropped = errors.New("all extracted entries failed timestamp validation")

// keepIndexes applies the drop rules in order: negative timestamps, then
// the duration bound (when duration > 0), then non-decreasing order across
// survivors. Entries are never reordered and equal timestamps survive.
func keepIndexes(seconds []int, duration int) (keep []int, dropped int) {
	last := 0
	haveLast := false

	for i, s := range seconds {
		if s < 0 {
			dropped++
			continue
		}
		if duration > 0 && s > duration {
			dropped++
			continue
		}
		if haveLast && s < last {
			dropped++
			continue
		}

		keep = append(keep, i)
		last = s
		haveLast = true
	}

	return keep, dropped
}

func validateChapters(entries []models.ChapterEntry, duration int) ([]models.ChapterEntry, int, error) {
	if len(entries) == 0 {
		return nil, 0, nil
	}

	seconds := make([]int, len(entries))
	for i, entry := range entries {
		seconds[i] = entry.Seconds
	}

	keep, dropped := keepIndexes(seconds, duration)
	if len(keep) == 0 {
		return nil, dropped, fmt.Errorf("%w (%d of %d entries dropped)", ErrAllDropped, dropped, len(entries))
	}

	kept := make([]models.ChapterEntry, 0, len(keep))
	for _, i := range keep {
		kept = append(kept, entries[i])
	}

	return kept, dropped, nil
}

func validateSteps(steps []models.SolutionStep, duration int) ([]models.SolutionStep, int, error) {
	if len(steps) == 0 {
		return nil, 0, nil
	}

	seconds := make([]int, len(steps))
	for i, step := range steps {
		seconds[i] = step.Seconds
	}

	keep, dropped := keepIndexes(seconds, duration)
	if len(keep) == 0 {
		return nil, dropped, fmt.Errorf("%w (%d of %d entries dropped)", ErrAllDropped, dropped, len(steps))
	}

	kept := make([]models.SolutionStep, 0, len(keep))
	for _, i := range keep {
		kept = append(kept, steps[i])
	}

	return kept, dropped, nil
}
