// Package environ is the environment-variable capability behind the ENV
// class. Two backends exist: System reads and writes the process
// environment, Memory keeps an isolated in-process map. The backend is
// selected by boot configuration and fixed for the interpreter's lifetime.
//
// Names and values are byte strings. Every backend rejects names that are
// empty, contain '=' or NUL, and values containing NUL, with an
// ArgumentError-kind error matching the reference behavior.
package environ

import (
	"bytes"

	"github.com/garnet-lang/garnet/exception"
)

// Environ is the canonical method set of the capability.
type Environ interface {
	// Name identifies the backend for capability descriptors.
	Name() string

	// Get returns the value for name, or nil, false when unset.
	Get(name []byte) ([]byte, bool)

	// Set stores a value for name. A nil value unsets the variable.
	Set(name []byte, value []byte) error

	// ToMap returns a snapshot of all variables.
	ToMap() map[string][]byte
}

func validateName(name []byte) error {
	if len(name) == 0 {
		return exception.Newf(exception.KindArgumentError, "wrong ENV variable name")
	}
	if bytes.IndexByte(name, '=') >= 0 {
		return exception.Newf(exception.KindArgumentError,
			"bad environment variable name: contains '='")
	}
	if bytes.IndexByte(name, 0) >= 0 {
		return exception.Newf(exception.KindArgumentError, "bad environment variable name")
	}
	return nil
}

func validateValue(value []byte) error {
	if bytes.IndexByte(value, 0) >= 0 {
		return exception.Newf(exception.KindArgumentError, "bad environment variable value")
	}
	return nil
}
