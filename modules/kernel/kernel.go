// Package kernel installs the top-level methods every script can call
// without a receiver: output helpers and require.
package kernel

import (
	"fmt"
	"strings"

	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/vfs"
	"github.com/garnet-lang/garnet/vm"
)

// Register installs the kernel methods on Object. The filesystem backs
// require; loaded paths are remembered per machine so a feature loads once.
func Register(m *vm.Machine, fs vfs.Filesystem) error {
	loaded := make(map[string]bool)
	return vm.ExtendClass(m, "Object", func(b *vm.ClassBuilder) {
		b.Method("puts", puts, vm.Arity{Min: 0, Max: -1})
		b.Method("print", printMethod, vm.Arity{Min: 0, Max: -1})
		b.Method("p", inspectPrint, vm.Arity{Min: 0, Max: -1})
		b.Method("require", requireMethod(fs, loaded), vm.Arity{Min: 1, Max: 1})
	})
}

// displayString renders a value the way puts does: strings verbatim,
// everything else through inspect.
func displayString(v object.Value) []byte {
	if s, ok := v.(*object.String); ok {
		return s.Bytes()
	}
	if v == object.Nil {
		return nil
	}
	return []byte(v.Inspect())
}

func puts(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	if len(args) == 0 {
		fmt.Fprintln(m.Output())
		return object.Nil, nil
	}
	for _, arg := range args {
		if arr, ok := arg.(*object.Array); ok {
			for _, item := range arr.Items() {
				fmt.Fprintf(m.Output(), "%s\n", displayString(item))
			}
			continue
		}
		fmt.Fprintf(m.Output(), "%s\n", displayString(arg))
	}
	return object.Nil, nil
}

func printMethod(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	for _, arg := range args {
		fmt.Fprintf(m.Output(), "%s", displayString(arg))
	}
	return object.Nil, nil
}

// inspectPrint is p: inspect each argument on its own line and return the
// argument (or an array of them).
func inspectPrint(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	for _, arg := range args {
		fmt.Fprintf(m.Output(), "%s\n", arg.Inspect())
	}
	switch len(args) {
	case 0:
		return object.Nil, nil
	case 1:
		return args[0], nil
	default:
		return object.NewArray(args), nil
	}
}

func requireMethod(fs vfs.Filesystem, loaded map[string]bool) vm.NativeFunc {
	return func(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
		name, err := object.AsString(args[0])
		if err != nil {
			return nil, exception.TypeError("no implicit conversion into String")
		}
		path := name
		if !strings.HasSuffix(path, ".rb") {
			path += ".rb"
		}
		if loaded[path] {
			return object.False, nil
		}
		source, err := fs.ReadFile(path)
		if err != nil {
			// The filesystem reports missing files as LoadError already.
			return nil, err
		}
		loaded[path] = true
		if _, err := m.Eval(source, path); err != nil {
			delete(loaded, path)
			return nil, err
		}
		return object.True, nil
	}
}
