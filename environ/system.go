package environ

import (
	"os"
	"strings"

	"github.com/garnet-lang/garnet/exception"
)

// System reads and writes the host process environment.
type System struct{}

func (System) Name() string {
	return "system"
}

func (System) Get(name []byte) ([]byte, bool) {
	if validateName(name) != nil {
		return nil, false
	}
	value, ok := os.LookupEnv(string(name))
	if !ok {
		return nil, false
	}
	return []byte(value), true
}

func (System) Set(name []byte, value []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if value == nil {
		if err := os.Unsetenv(string(name)); err != nil {
			return exception.Newf(exception.KindRuntimeError, "failed to unset %s: %v", name, err)
		}
		return nil
	}
	if err := validateValue(value); err != nil {
		return err
	}
	if err := os.Setenv(string(name), string(value)); err != nil {
		return exception.Newf(exception.KindRuntimeError, "failed to set %s: %v", name, err)
	}
	return nil
}

func (System) ToMap() map[string][]byte {
	entries := os.Environ()
	result := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		if idx := strings.IndexByte(entry, '='); idx >= 0 {
			result[entry[:idx]] = []byte(entry[idx+1:])
		}
	}
	return result
}
