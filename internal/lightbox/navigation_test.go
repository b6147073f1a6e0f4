package lightbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPrevious(t *testing.T) {
	tests := []struct {
		name    string
		current int
		length  int
		next    int
		prev    int
	}{
		{"middle", 2, 5, 3, 1},
		{"last wraps to first", 4, 5, 0, 3},
		{"first wraps to last", 0, 5, 1, 4},
		{"single item", 0, 1, 0, 0},
		{"two items", 1, 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.next, Next(tt.current, tt.length))
			assert.Equal(t, tt.prev, Previous(tt.current, tt.length))
		})
	}
}

func TestNavigationWrapsAroundFullCycle(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for start := 0; start < n; start++ {
			fwd, back := start, start
			for i := 0; i < n; i++ {
				fwd = Next(fwd, n)
				back = Previous(back, n)
				require.GreaterOrEqual(t, fwd, 0)
				require.Less(t, fwd, n)
				require.GreaterOrEqual(t, back, 0)
				require.Less(t, back, n)
			}
			assert.Equal(t, start, fwd, "next x%d from %d", n, start)
			assert.Equal(t, start, back, "previous x%d from %d", n, start)
		}
	}
}

func TestNavigationEmptyCatalog(t *testing.T) {
	assert.Equal(t, 0, Next(0, 0))
	assert.Equal(t, 0, Previous(0, 0))
}

func TestJump(t *testing.T) {
	got, err := Jump(3, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	for _, target := range []int{-1, 5, 100} {
		_, err := Jump(target, 5)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "target %d", target)
	}

	_, err = Jump(0, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
