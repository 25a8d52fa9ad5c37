// ABOUTME: Value-returning positional helpers for ordered document fields
// ABOUTME: Append, ReplaceAt and RemoveAt always build a fresh slice

package content

import (
	"sort"
	"strings"
)

// MinOrder is the smallest display order an entity may carry.
const MinOrder = 1

// Append returns a new slice with v added at the end.
func Append[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// ReplaceAt returns a new slice with the element at i replaced by v.
// An out-of-range index yields an unchanged copy.
func ReplaceAt[T any](s []T, i int, v T) []T {
	out := make([]T, len(s))
	copy(out, s)
	if i >= 0 && i < len(out) {
		out[i] = v
	}
	return out
}

// RemoveAt returns a new slice without the element at i. Elements after i
// shift down by one. An out-of-range index yields an unchanged copy.
func RemoveAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		out := make([]T, len(s))
		copy(out, s)
		return out
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// CleanBullets drops entries that are empty or whitespace only.
func CleanBullets(bullets []string) []string {
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return out
}

// ClampOrder raises n to MinOrder if it is below it.
func ClampOrder(n int) int {
	if n < MinOrder {
		return MinOrder
	}
	return n
}

// SortByOrder returns a copy of items sorted ascending by order.
// Ties keep their fetched order.
func SortByOrder[T any](items []T, order func(T) int) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return order(out[i]) < order(out[j])
	})
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// StepOrder moves n by delta, clamped to MinOrder.
func StepOrder(n, delta int) int {
	return ClampOrder(n + delta)
}
