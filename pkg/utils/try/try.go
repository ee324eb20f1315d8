// Package try shortens the handling of (value, error) pairs where failure is fatal,
// mostly in tests and in main.
//
//	pool := try.To(pgxpool.Connect(ctx, url)).OrFatal(t)
package try

// Fataler is something which can Fatal, like *testing.T and *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either is a pair of a value and an error.
//
// It is "ok" when the error is nil.
type Either[T any] interface {
	// Get returns (value, nil) when ok, otherwise (zero value, error).
	Get() (T, error)

	// OrFatal returns the value when ok.
	//
	// Otherwise, it calls ftl.Helper() (if ftl has) and ftl.Fatal(err).
	OrFatal(ftl Fataler) T

	// OrDefault returns the value when ok, otherwise d.
	OrDefault(d T) T
}

func To[T any](v T, err error) Either[T] {
	if err == nil {
		return ok[T]{v}
	}
	return ng[T]{err}
}

// Map converts the value when ok.
func Map[T any, R any](e Either[T], mapper func(T) R) Either[R] {
	v, err := e.Get()
	if err != nil {
		return ng[R]{err}
	}
	return ok[R]{mapper(v)}
}

type ok[T any] struct {
	value T
}

func (o ok[T]) Get() (T, error)   { return o.value, nil }
func (o ok[T]) OrFatal(Fataler) T { return o.value }
func (o ok[T]) OrDefault(T) T     { return o.value }

type ng[T any] struct {
	err error
}

func (n ng[T]) Get() (T, error) { return *new(T), n.err }
func (n ng[T]) OrDefault(d T) T { return d }

func (n ng[T]) OrFatal(ftl Fataler) T {
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(n.err)
	return *new(T)
}

// Pair is Either for functions returning two values and an error.
type Pair[T any, U any] struct {
	a   T
	b   U
	err error
}

func To2[T any, U any](a T, b U, err error) Pair[T, U] {
	return Pair[T, U]{a: a, b: b, err: err}
}

// OrFatal returns the values when err is nil, otherwise calls ftl.Fatal(err).
func (p Pair[T, U]) OrFatal(ftl Fataler) (T, U) {
	if p.err != nil {
		if h, ok := ftl.(interface{ Helper() }); ok {
			h.Helper()
		}
		ftl.Fatal(p.err)
		return *new(T), *new(U)
	}
	return p.a, p.b
}
