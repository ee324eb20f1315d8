// Package mocks has helpers shared by mocked databases.
package mocks

// CallLog records arguments passed to a mocked method, in order of calls.
type CallLog[T any] []T

// Times is the number of calls.
func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

// Last returns arguments of the latest call, or the zero value when never called.
func (l CallLog[T]) Last() T {
	if len(l) == 0 {
		return *new(T)
	}
	return l[len(l)-1]
}
