package vm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/garnet-lang/garnet/object"
)

// ClassBuilder accumulates a class definition and installs it atomically.
// Misconfiguration (duplicate class, duplicate method name, unknown
// superclass) is collected and reported from Define as one error; nothing is
// installed on failure.
type ClassBuilder struct {
	name      string
	superName string
	methods   []*method
	smethods  []*method
}

// BuildClass starts a definition for the named class. The superclass
// defaults to Object.
func BuildClass(name string) *ClassBuilder {
	return &ClassBuilder{name: name, superName: "Object"}
}

// Super sets the superclass by name.
func (b *ClassBuilder) Super(name string) *ClassBuilder {
	b.superName = name
	return b
}

// Method adds an instance method.
func (b *ClassBuilder) Method(name string, fn NativeFunc, arity Arity) *ClassBuilder {
	b.methods = append(b.methods, &method{name: name, fn: fn, arity: arity})
	return b
}

// SMethod adds a singleton (class-level) method.
func (b *ClassBuilder) SMethod(name string, fn NativeFunc, arity Arity) *ClassBuilder {
	b.smethods = append(b.smethods, &method{name: name, fn: fn, arity: arity})
	return b
}

// Define installs the class on the machine.
func (b *ClassBuilder) Define(m *Machine) (*object.Class, error) {
	var errs error
	super, ok := m.Class(b.superName)
	if !ok && b.name != "Object" {
		errs = multierror.Append(errs,
			fmt.Errorf("class %s: superclass %s not defined", b.name, b.superName))
	}
	seen := make(map[string]bool)
	for _, fn := range b.methods {
		if seen[fn.name] {
			errs = multierror.Append(errs,
				fmt.Errorf("class %s: method %s defined twice", b.name, fn.name))
		}
		seen[fn.name] = true
	}
	seen = make(map[string]bool)
	for _, fn := range b.smethods {
		if seen[fn.name] {
			errs = multierror.Append(errs,
				fmt.Errorf("class %s: singleton method %s defined twice", b.name, fn.name))
		}
		seen[fn.name] = true
	}
	if errs != nil {
		return nil, errs
	}
	entry, err := m.defineClass(b.name, super)
	if err != nil {
		return nil, err
	}
	for _, fn := range b.methods {
		entry.methods[fn.name] = fn
	}
	for _, fn := range b.smethods {
		entry.smethods[fn.name] = fn
	}
	return entry.class, nil
}

// ExtendClass adds methods to an already-defined class. Redefining an
// existing method is a configuration error.
func ExtendClass(m *Machine, name string, build func(b *ClassBuilder)) error {
	entry, ok := m.classes[name]
	if !ok {
		return fmt.Errorf("class %s not defined", name)
	}
	b := &ClassBuilder{name: name}
	build(b)
	var errs error
	for _, fn := range b.methods {
		if _, dup := entry.methods[fn.name]; dup {
			errs = multierror.Append(errs,
				fmt.Errorf("class %s: method %s already defined", name, fn.name))
		}
	}
	for _, fn := range b.smethods {
		if _, dup := entry.smethods[fn.name]; dup {
			errs = multierror.Append(errs,
				fmt.Errorf("class %s: singleton method %s already defined", name, fn.name))
		}
	}
	if errs != nil {
		return errs
	}
	for _, fn := range b.methods {
		entry.methods[fn.name] = fn
	}
	for _, fn := range b.smethods {
		entry.smethods[fn.name] = fn
	}
	return nil
}
