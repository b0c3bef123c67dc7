package tiers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	name         string
	direct, team int
}

func (r row) Thresholds() (int, int) {
	return r.direct, r.team
}

var table = []row{
	{"base", 0, 0},
	{"one", 6, 30},
	{"two", 10, 40},
	{"three", 15, 50},
	{"four", 25, 100},
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		direct int
		team   int
		want   string
	}{
		{name: "Nothing", direct: 0, team: 0, want: "base"},
		{name: "Direct met but team short", direct: 20, team: 40, want: "two"},
		{name: "Team met but direct short", direct: 5, team: 500, want: "base"},
		{name: "Exact thresholds", direct: 15, team: 50, want: "three"},
		{name: "Above top row", direct: 100, team: 1000, want: "four"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Select(table, tt.direct, tt.team)
			assert.NotEqual(t, -1, idx)
			assert.Equal(t, tt.want, table[idx].name)
		})
	}
}

func TestSelectWithoutBaseRow(t *testing.T) {
	assert.Equal(t, -1, Select(table[1:], 3, 10))
}

func TestSelectIgnoresOrder(t *testing.T) {
	shuffled := []row{table[3], table[0], table[4], table[2], table[1]}
	idx := Select(shuffled, 12, 45)
	assert.Equal(t, "two", shuffled[idx].name)
}

func TestSelectIsMonotonic(t *testing.T) {
	for direct := 0; direct <= 40; direct++ {
		for team := direct; team <= 120; team += 5 {
			current := table[Select(table, direct, team)]
			more := table[Select(table, direct+1, team+5)]
			assert.False(t, higher(current, more), "direct=%d team=%d", direct, team)
		}
	}
}

func TestNext(t *testing.T) {
	assert.Equal(t, 2, Next(table, 1))
	assert.Equal(t, -1, Next(table, 4))
	assert.Equal(t, 0, Next(table, -1))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, Sorted(table))
}
