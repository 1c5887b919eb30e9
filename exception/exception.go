// Package exception defines the host-side exception taxonomy and the error
// values that cross the embedding boundary.
//
// The taxonomy is a closed, versioned enumeration of the exception classes
// native code may raise, each with a full ancestor chain rooted at Exception.
// Scripts rescue by class name, so the names and chains here are part of the
// compatibility contract. VM-raised exceptions whose class has no entry in
// the taxonomy map to the Unmapped fallback, which carries the original class
// name and message verbatim.
package exception

// Kind identifies one exception class in the taxonomy.
type Kind int

const (
	// KindUnmapped is the fallback for VM-raised exceptions whose class has
	// no descriptor. The original class name and message are preserved.
	KindUnmapped Kind = iota

	KindException
	KindScriptError
	KindSyntaxError
	KindLoadError
	KindNotImplementedError
	KindStandardError
	KindArgumentError
	KindTypeError
	KindRuntimeError
	KindFrozenError
	KindIndexError
	KindKeyError
	KindNameError
	KindNoMethodError
	KindRangeError
	KindFloatDomainError
	KindIOError
	KindEOFError
	KindRegexpError
	KindZeroDivisionError
	KindSecurityError
	KindStopIteration
	KindFatal
)

// Descriptor maps one host error kind to its VM-side exception class: the
// class name, the parent in the ancestor chain, and whether scripts may
// rescue it. The mapping is total on the host side; every Kind other than
// KindUnmapped has exactly one Descriptor.
type Descriptor struct {
	Kind   Kind
	Name   string
	Parent Kind
}

// descriptors is ordered parent-before-child so the machine can install the
// hierarchy in one pass.
var descriptors = []Descriptor{
	{KindException, "Exception", KindException},
	{KindScriptError, "ScriptError", KindException},
	{KindSyntaxError, "SyntaxError", KindScriptError},
	{KindLoadError, "LoadError", KindScriptError},
	{KindNotImplementedError, "NotImplementedError", KindScriptError},
	{KindStandardError, "StandardError", KindException},
	{KindArgumentError, "ArgumentError", KindStandardError},
	{KindTypeError, "TypeError", KindStandardError},
	{KindRuntimeError, "RuntimeError", KindStandardError},
	{KindFrozenError, "FrozenError", KindRuntimeError},
	{KindIndexError, "IndexError", KindStandardError},
	{KindKeyError, "KeyError", KindIndexError},
	{KindNameError, "NameError", KindStandardError},
	{KindNoMethodError, "NoMethodError", KindNameError},
	{KindRangeError, "RangeError", KindStandardError},
	{KindFloatDomainError, "FloatDomainError", KindRangeError},
	{KindIOError, "IOError", KindStandardError},
	{KindEOFError, "EOFError", KindIOError},
	{KindRegexpError, "RegexpError", KindStandardError},
	{KindZeroDivisionError, "ZeroDivisionError", KindStandardError},
	{KindSecurityError, "SecurityError", KindException},
	{KindStopIteration, "StopIteration", KindIndexError},
	{KindFatal, "fatal", KindException},
}

var descriptorsByName = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		m[d.Name] = d
	}
	return m
}()

var descriptorsByKind = func() map[Kind]Descriptor {
	m := make(map[Kind]Descriptor, len(descriptors))
	for _, d := range descriptors {
		m[d.Kind] = d
	}
	return m
}()

// Descriptors returns the full taxonomy, parents before children.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Describe returns the descriptor for the given kind. KindUnmapped has no
// descriptor and returns false.
func Describe(kind Kind) (Descriptor, bool) {
	d, ok := descriptorsByKind[kind]
	return d, ok
}

// Lookup resolves an exception class name to its host-side kind. Unknown
// class names return KindUnmapped, false: the VM-side hierarchy is open
// (scripts may subclass), so the mapping is deliberately partial in this
// direction and falls back to the generic descriptor.
func Lookup(name string) (Kind, bool) {
	if d, ok := descriptorsByName[name]; ok {
		return d.Kind, true
	}
	return KindUnmapped, false
}

// Name returns the class name for the given kind, or the empty string for
// KindUnmapped.
func (k Kind) Name() string {
	if d, ok := descriptorsByKind[k]; ok {
		return d.Name
	}
	return ""
}

// Ancestors returns the class-name chain from the kind itself up to the
// Exception root.
func (k Kind) Ancestors() []string {
	var chain []string
	cur := k
	for {
		d, ok := descriptorsByKind[cur]
		if !ok {
			return chain
		}
		chain = append(chain, d.Name)
		if d.Kind == KindException {
			return chain
		}
		cur = d.Parent
	}
}
