// Package capability defines the descriptors shared by the pluggable
// subsystem backends: pattern matching, randomness, environment access, and
// filesystem access.
//
// Each subsystem is one interface with a canonical method set. Exactly one
// backend per subsystem is selected for a given build; callers are written
// against the interface only, so swapping backends changes no call site.
// Selection is a build-time decision (build tags choose the default pattern
// and random backends; boot configuration chooses the environment source and
// filesystem, which the boot surface exposes explicitly). The selected set is
// immutable for the lifetime of an interpreter.
package capability

import (
	"fmt"
)

// Subsystem names a pluggable capability.
type Subsystem string

const (
	Pattern      Subsystem = "pattern"
	Random       Subsystem = "random"
	SecureRandom Subsystem = "securerandom"
	Environ      Subsystem = "environ"
	Filesystem   Subsystem = "filesystem"
)

// Descriptor records which backend implementation serves a subsystem.
// Immutable after boot; safe for concurrent reads.
type Descriptor struct {
	Subsystem Subsystem
	Backend   string
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s=%s", d.Subsystem, d.Backend)
}

// UnsupportedError reports that an input uses a feature outside the linked
// backend's supported subset. It is distinguishable from input-validation
// failures: the input may be valid for another backend of the same
// capability, it just cannot be served by this one.
type UnsupportedError struct {
	Subsystem Subsystem
	Backend   string
	Feature   string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s backend %q does not support %s", e.Subsystem, e.Backend, e.Feature)
}

// Unsupported creates an UnsupportedError.
func Unsupported(subsystem Subsystem, backend, feature string) *UnsupportedError {
	return &UnsupportedError{Subsystem: subsystem, Backend: backend, Feature: feature}
}
