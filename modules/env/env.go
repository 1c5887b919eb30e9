// Package env exposes process (or in-memory) environment variables to
// scripts as the ENV object, an instance of the Environ class bound to the
// configured backend.
package env

import (
	"sort"

	"github.com/garnet-lang/garnet/environ"
	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/vm"
)

// Register defines the Environ class and binds ENV to an instance backed by
// the given backend.
func Register(m *vm.Machine, backend environ.Environ) error {
	_, err := vm.BuildClass("Environ").
		Method("[]", getVar, vm.Arity{Min: 1, Max: 1}).
		Method("[]=", setVar, vm.Arity{Min: 2, Max: 2}).
		Method("fetch", fetchVar, vm.Arity{Min: 1, Max: 2}).
		Method("key?", hasVar, vm.Arity{Min: 1, Max: 1}).
		Method("has_key?", hasVar, vm.Arity{Min: 1, Max: 1}).
		Method("include?", hasVar, vm.Arity{Min: 1, Max: 1}).
		Method("delete", deleteVar, vm.Arity{Min: 1, Max: 1}).
		Method("to_h", toHash, vm.Arity{}).
		Method("to_hash", toHash, vm.Arity{}).
		Method("length", length, vm.Arity{}).
		Method("size", length, vm.Arity{}).
		Define(m)
	if err != nil {
		return err
	}
	instance := object.NewInstance(m.MustClass("Environ"))
	instance.SetData(backend)
	return m.DefineConstant("ENV", instance)
}

func backendOf(self object.Value) (environ.Environ, error) {
	instance, err := object.AsInstance(self)
	if err != nil {
		return nil, err
	}
	backend, ok := instance.Data().(environ.Environ)
	if !ok {
		return nil, exception.TypeError("uninitialized Environ")
	}
	return backend, nil
}

func nameArg(arg object.Value) ([]byte, error) {
	name, err := object.AsBytes(arg)
	if err != nil {
		return nil, exception.TypeError("no implicit conversion into String")
	}
	return name, nil
}

func getVar(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	backend, err := backendOf(self)
	if err != nil {
		return nil, err
	}
	name, err := nameArg(args[0])
	if err != nil {
		return nil, err
	}
	value, ok := backend.Get(name)
	if !ok {
		return object.Nil, nil
	}
	return object.NewBytes(value), nil
}

func setVar(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	backend, err := backendOf(self)
	if err != nil {
		return nil, err
	}
	name, err := nameArg(args[0])
	if err != nil {
		return nil, err
	}
	if args[1] == object.Nil {
		if err := backend.Set(name, nil); err != nil {
			return nil, err
		}
		return object.Nil, nil
	}
	value, err := object.AsBytes(args[1])
	if err != nil {
		return nil, exception.TypeError("no implicit conversion into String")
	}
	if err := backend.Set(name, value); err != nil {
		return nil, err
	}
	return args[1], nil
}

func fetchVar(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	backend, err := backendOf(self)
	if err != nil {
		return nil, err
	}
	name, err := nameArg(args[0])
	if err != nil {
		return nil, err
	}
	if value, ok := backend.Get(name); ok {
		return object.NewBytes(value), nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return nil, exception.KeyError("key not found: %q", string(name))
}

func hasVar(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	backend, err := backendOf(self)
	if err != nil {
		return nil, err
	}
	name, err := nameArg(args[0])
	if err != nil {
		return nil, err
	}
	_, ok := backend.Get(name)
	return object.NewBool(ok), nil
}

func deleteVar(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	backend, err := backendOf(self)
	if err != nil {
		return nil, err
	}
	name, err := nameArg(args[0])
	if err != nil {
		return nil, err
	}
	value, ok := backend.Get(name)
	if !ok {
		return object.Nil, nil
	}
	if err := backend.Set(name, nil); err != nil {
		return nil, err
	}
	return object.NewBytes(value), nil
}

func toHash(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	backend, err := backendOf(self)
	if err != nil {
		return nil, err
	}
	snapshot := backend.ToMap()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	hash := object.NewHash()
	for _, name := range names {
		if err := hash.Set(object.NewString(name), object.NewBytes(snapshot[name])); err != nil {
			return nil, err
		}
	}
	return hash, nil
}

func length(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	backend, err := backendOf(self)
	if err != nil {
		return nil, err
	}
	return object.NewInt(int64(len(backend.ToMap()))), nil
}
