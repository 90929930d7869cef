package host

import (
	"os"

	"github.com/jmgilman/go/errors"
)

// Wrap primitive failure with operation and path context
func Error(err error, op, name string) error {
	if err == nil {
		return nil
	}
	code := errors.CodeExecutionFailed
	if os.IsNotExist(err) {
		code = errors.CodeNotFound
	}
	return errors.WithContextMap(errors.Wrap(err, code, op+" "+name), map[string]interface{}{
		"op":   op,
		"path": name,
	})
}
