package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetStringSlice(t *testing.T) {
	t.Run("returns slice with correct size", func(t *testing.T) {
		slice, cleanup := GetStringSlice(4)
		defer cleanup()

		require.Equal(t, 4, len(slice))
		require.GreaterOrEqual(t, cap(slice), 4)
	})

	t.Run("reuses pooled slice when capacity sufficient", func(t *testing.T) {
		slice1, cleanup1 := GetStringSlice(4)
		slice1[0] = "a"
		ptr1 := &slice1[0]
		cleanup1()

		slice2, cleanup2 := GetStringSlice(4)
		defer cleanup2()
		ptr2 := &slice2[0]

		require.Equal(t, ptr1, ptr2, "should reuse same underlying array")
	})

	t.Run("allocates new slice when capacity insufficient", func(t *testing.T) {
		_, cleanup1 := GetStringSlice(2)
		cleanup1()

		slice2, cleanup2 := GetStringSlice(64)
		defer cleanup2()

		require.Equal(t, 64, len(slice2))
	})
}
