package errors_test

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	xe "github.com/investperdiem/perdiem/pkg/errors"
)

var errRoot = errors.New("root cause")

func failInLedger() error {
	return xe.Wrap(fmt.Errorf("ledger: %w", errRoot))
}

func TestWrap(t *testing.T) {
	t.Run("wrapped error knows where it is wrapped", func(t *testing.T) {
		err := failInLedger()
		msg := err.Error()

		_, thisFile, _, _ := runtime.Caller(0)
		if !strings.Contains(msg, "failInLedger") {
			t.Errorf("function name is missing: %s", msg)
		}
		if !strings.Contains(msg, thisFile) {
			t.Errorf("file name (%s) is missing: %s", thisFile, msg)
		}

		var ewc *xe.ErrWithCaller
		if !errors.As(err, &ewc) {
			t.Fatalf("not an ErrWithCaller: %#v", err)
		}
		if ewc.Line() <= 0 {
			t.Errorf("line: %d", ewc.Line())
		}
	})

	t.Run("wrapped error unwraps to the cause", func(t *testing.T) {
		if err := failInLedger(); !errors.Is(err, errRoot) {
			t.Errorf("%v should be %v", err, errRoot)
		}
	})

	t.Run("nil is not wrapped", func(t *testing.T) {
		if err := xe.Wrap(nil); err != nil {
			t.Errorf("wrapped nil: %v", err)
		}
	})
}
