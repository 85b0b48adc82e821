// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package qsort selects order statistics from float64 slices in linear
// expected time, without fully sorting them.
package qsort

// Partitions a with the middle element as pivot. Values less than the pivot
// end up left of the returned index, greater ones right of it.
// a must not contain NaN.
func partition(a []float64) int {
	pivot := a[(len(a)-1)>>1]
	l, r := -1, len(a)
	for {
		for {
			l++
			if a[l] >= pivot {
				break
			}
		}
		for {
			r--
			if a[r] <= pivot {
				break
			}
		}
		if l >= r {
			return r
		}
		a[l], a[r] = a[r], a[l]
	}
}

// Selects the kth lowest element of a, counting from 1. Partially reorders a.
// a must not contain NaN.
func Select(a []float64, k int) float64 {
	left, right := 0, len(a)-1
	for left < right {
		index := left + partition(a[left:right+1])
		offset := index - left + 1
		if k <= offset {
			right = index
		} else {
			left = index + 1
			k -= offset
		}
	}
	return a[left]
}

// Returns the median of a, the mean of the two central elements for even
// lengths. Partially reorders a. Returns 0 for an empty slice.
// a must not contain NaN.
func Median(a []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	upper := Select(a, n/2+1)
	if n&1 != 0 {
		return upper
	}
	// after selection the lower half holds all values up to the upper median
	lower := a[0]
	for _, v := range a[1 : n/2] {
		if v > lower {
			lower = v
		}
	}
	return 0.5 * (lower + upper)
}
