package lightbox

import "fmt"

// Next returns the index after current, wrapping from the last to the first.
func Next(current, length int) int {
	if length <= 0 {
		return 0
	}
	return (current + 1) % length
}

// Previous returns the index before current, wrapping from the first to the last.
func Previous(current, length int) int {
	if length <= 0 {
		return 0
	}
	return (current - 1 + length) % length
}

// Jump validates target against a catalog of the given length. Out-of-range
// targets are a caller error and are rejected, never clamped.
func Jump(target, length int) (int, error) {
	if target < 0 || target >= length {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, target, length)
	}
	return target, nil
}
