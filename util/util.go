package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Mod is the euclidean remainder: the result always has the sign of m,
// so Mod(-1, 12) == 11.
func Mod[A constraints.Integer](n A, m A) A {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Dedupe drops elements equal to their predecessor. Input is expected to be
// sorted so that duplicates are adjacent.
func Dedupe[A comparable](items []A) []A {
	var res []A
	for i, v := range items {
		if i > 0 && items[i-1] == v {
			continue
		}
		res = append(res, v)
	}
	return res
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
