package helpers

import "golang.org/x/exp/constraints"

// Min returns the smallest of the given numbers.
func Min[T constraints.Ordered](numbers ...T) T {
	min := numbers[0]
	for _, n := range numbers {
		if n < min {
			min = n
		}
	}
	return min
}

// Max returns the largest of the given numbers.
func Max[T constraints.Ordered](numbers ...T) T {
	max := numbers[0]
	for _, n := range numbers {
		if n > max {
			max = n
		}
	}
	return max
}

// Sum returns the sum of the given numbers.
func Sum[T constraints.Integer | constraints.Float](numbers ...T) T {
	var sum T
	for _, n := range numbers {
		sum += n
	}
	return sum
}
