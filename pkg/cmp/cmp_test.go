package cmp_test

import (
	"testing"

	"github.com/investperdiem/perdiem/pkg/cmp"
)

func TestSliceContentEq(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b     []string
		expected bool
	}{
		"same content in other order": {
			a: []string{"a", "b", "c"}, b: []string{"c", "b", "a"}, expected: true,
		},
		"extra element": {
			a: []string{"a", "b", "c"}, b: []string{"c", "b", "a", "z"}, expected: false,
		},
		"different element": {
			a: []string{"a", "b", "c"}, b: []string{"c", "b", "z"}, expected: false,
		},
		"multiplicity matters": {
			a: []string{"a", "b", "c", "c"}, b: []string{"a", "b", "b", "c"}, expected: false,
		},
		"both empty": {
			a: []string{}, b: nil, expected: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := cmp.SliceContentEq(testcase.a, testcase.b); actual != testcase.expected {
				t.Errorf("(actual, expected) = (%v, %v)", actual, testcase.expected)
			}
		})
	}
}

func TestSliceEq(t *testing.T) {
	if !cmp.SliceEq([]int{1, 2}, []int{1, 2}) {
		t.Error("equal slices are not equal")
	}
	if cmp.SliceEq([]int{1, 2}, []int{2, 1}) {
		t.Error("ordering should matter")
	}
}
