package utils

// Map converts each element of sli with mapper, keeping the order.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// KeysOf lists keys of m, in no particular order.
func KeysOf[T any, K comparable](m map[K]T) []K {
	sli := make([]K, 0, len(m))
	for k := range m {
		sli = append(sli, k)
	}
	return sli
}

// Filter returns elements for which predicator is true. The result is never nil.
func Filter[T any](vs []T, predicator func(T) bool) []T {
	ret := []T{}
	for _, v := range vs {
		if predicator(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// Uniq drops duplicated elements, keeping the first occurrence.
func Uniq[T comparable](sli []T) []T {
	seen := make(map[T]struct{}, len(sli))
	ret := make([]T, 0, len(sli))
	for _, v := range sli {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ret = append(ret, v)
	}
	return ret
}
