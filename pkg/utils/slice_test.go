package utils_test

import (
	"testing"

	"github.com/investperdiem/perdiem/pkg/cmp"
	"github.com/investperdiem/perdiem/pkg/utils"
)

func TestSliceUtils(t *testing.T) {
	t.Run("Map maps slice to another", func(t *testing.T) {
		actual := utils.Map([]int64{3, 5, 7}, func(v int64) int64 { return v * 2 })
		expected := []int64{6, 10, 14}
		if !cmp.SliceEq(actual, expected) {
			t.Errorf("(actual, expected) = (%v, %v)", actual, expected)
		}
	})

	t.Run("KeysOf lists keys", func(t *testing.T) {
		actual := utils.KeysOf(map[string]int{"x": 1, "y": 2})
		if !cmp.SliceContentEq(actual, []string{"x", "y"}) {
			t.Errorf("keys: %v", actual)
		}
	})

	t.Run("Filter never returns nil", func(t *testing.T) {
		actual := utils.Filter([]int{1, 2, 3}, func(int) bool { return false })
		if actual == nil || len(actual) != 0 {
			t.Errorf("filtered: %#v", actual)
		}
		odd := utils.Filter([]int{1, 2, 3}, func(v int) bool { return v%2 == 1 })
		if !cmp.SliceEq(odd, []int{1, 3}) {
			t.Errorf("filtered: %v", odd)
		}
	})

	t.Run("Uniq keeps the first occurrence", func(t *testing.T) {
		actual := utils.Uniq([]int64{1, 2, 2, 3, 1})
		if !cmp.SliceEq(actual, []int64{1, 2, 3}) {
			t.Errorf("uniq: %v", actual)
		}
	})
}
