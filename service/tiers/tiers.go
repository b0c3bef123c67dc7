// Package tiers selects a row of a threshold table from the direct referral count and the team size.
package tiers

import "sort"

// Row is a table row unlocked by a minimum number of direct referrals and team members
type Row interface {
	Thresholds() (minDirect, minTeam int)
}

// Select returns the index of the row with the highest thresholds met by both counts, or -1.
// Rows may be given in any order.
func Select[T Row](rows []T, direct, team int) int {
	best := -1
	for i, row := range rows {
		minDirect, minTeam := row.Thresholds()
		if direct < minDirect || team < minTeam {
			continue
		}
		if best == -1 || higher(row, rows[best]) {
			best = i
		}
	}
	return best
}

// Next returns the index of the lowest row above the given one, or -1 when it is the top row
func Next[T Row](rows []T, current int) int {
	order := Sorted(rows)
	for i, idx := range order {
		if idx == current && i+1 < len(order) {
			return order[i+1]
		}
	}
	if current == -1 && len(order) > 0 {
		return order[0]
	}
	return -1
}

// Sorted returns the row indexes in ascending threshold order
func Sorted[T Row](rows []T) []int {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return higher(rows[order[j]], rows[order[i]])
	})
	return order
}

func higher[T Row](a, b T) bool {
	aDirect, aTeam := a.Thresholds()
	bDirect, bTeam := b.Thresholds()
	if aDirect != bDirect {
		return aDirect > bDirect
	}
	return aTeam > bTeam
}
