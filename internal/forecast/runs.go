package forecast

import "golang.org/x/exp/constraints"

// GroupRuns splits a sorted slice into maximal runs in which each value is
// either equal to or one greater than the previous value. Accepting equal
// values widens the plain next == prev+1 rule so duplicate hours never split
// a run; on input without duplicates the two rules agree.
func GroupRuns[T constraints.Integer](sorted []T) [][]T {
	var runs [][]T
	for i, v := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			if v == prev || v == prev+1 {
				runs[len(runs)-1] = append(runs[len(runs)-1], v)
				continue
			}
		}
		runs = append(runs, []T{v})
	}
	return runs
}
