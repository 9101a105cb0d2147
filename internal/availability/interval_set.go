package availability

import (
	"sort"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// IntervalSet sorted set of disjoint half-open intervals.
// Adjacent intervals are merged, so [09:00,12:00) + [12:00,16:00) is one free region.
type IntervalSet []domain.Interval

// NewIntervalSet builds a normalized set from arbitrary intervals
func NewIntervalSet(intervals ...domain.Interval) IntervalSet {
	return normalize(intervals)
}

// Union adds intervals to the set
func (s IntervalSet) Union(intervals ...domain.Interval) IntervalSet {
	merged := make([]domain.Interval, 0, len(s)+len(intervals))
	merged = append(merged, s...)
	merged = append(merged, intervals...)
	return normalize(merged)
}

// Subtract removes an interval, splitting regions it partially covers
func (s IntervalSet) Subtract(cut domain.Interval) IntervalSet {
	if cut.Empty() {
		return s
	}

	result := make(IntervalSet, 0, len(s)+1)
	for _, region := range s {
		if !region.Overlaps(cut) {
			result = append(result, region)
			continue
		}
		if left := (domain.Interval{Start: region.Start, End: cut.Start}); !left.Empty() {
			result = append(result, left)
		}
		if right := (domain.Interval{Start: cut.End, End: region.End}); !right.Empty() {
			result = append(result, right)
		}
	}
	return result
}

func normalize(intervals []domain.Interval) IntervalSet {
	sorted := make([]domain.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.Empty() {
			sorted = append(sorted, iv)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	result := make(IntervalSet, 0, len(sorted))
	for _, iv := range sorted {
		last := len(result) - 1
		if last >= 0 && iv.Start <= result[last].End {
			if iv.End > result[last].End {
				result[last].End = iv.End
			}
			continue
		}
		result = append(result, iv)
	}
	return result
}
