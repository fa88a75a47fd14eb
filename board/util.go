package board

import (
	"golang.org/x/exp/constraints"
)

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// insertSorted inserts v into the ascending slice s unless already present.
func insertSorted[T constraints.Ordered](s []T, v T) []T {
	i := 0
	for i < len(s) && s[i] < v {
		i++
	}
	if i < len(s) && s[i] == v {
		return s
	}
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
