package cli

import (
	"errors"
	"fmt"
)

// ErrUsage marks errors caused by how the command was invoked
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
