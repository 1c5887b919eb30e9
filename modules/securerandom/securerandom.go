// Package securerandom exposes the secure random capability to scripts as
// the SecureRandom class. Every method is class-level; there is nothing to
// instantiate.
package securerandom

import (
	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/random"
	"github.com/garnet-lang/garnet/vm"
)

// Register defines the SecureRandom class over the given source.
func Register(m *vm.Machine, source random.SecureSource) error {
	_, err := vm.BuildClass("SecureRandom").
		SMethod("random_bytes", bytesMethod(source), vm.Arity{Min: 0, Max: 1}).
		SMethod("hex", stringMethod(source.Hex), vm.Arity{Min: 0, Max: 1}).
		SMethod("base64", stringMethod(source.Base64), vm.Arity{Min: 0, Max: 1}).
		SMethod("alphanumeric", stringMethod(source.Alphanumeric), vm.Arity{Min: 0, Max: 1}).
		SMethod("uuid", uuidMethod(source), vm.Arity{}).
		SMethod("random_number", numberMethod(source), vm.Arity{Min: 0, Max: 1}).
		Define(m)
	return err
}

// sizeArg extracts the optional byte-length argument, defaulting like the
// reference implementation does. Nil means default, not zero.
func sizeArg(args []object.Value) (int, error) {
	if len(args) == 0 || args[0] == object.Nil {
		return random.DefaultByteLength, nil
	}
	n, err := object.AsInt(args[0])
	if err != nil {
		return 0, exception.TypeError("no implicit conversion into Integer")
	}
	return int(n), nil
}

func bytesMethod(source random.SecureSource) vm.NativeFunc {
	return func(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
		n, err := sizeArg(args)
		if err != nil {
			return nil, err
		}
		data, err := source.Bytes(n)
		if err != nil {
			return nil, err
		}
		return object.NewBytes(data), nil
	}
}

func stringMethod(generate func(int) (string, error)) vm.NativeFunc {
	return func(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
		n, err := sizeArg(args)
		if err != nil {
			return nil, err
		}
		s, err := generate(n)
		if err != nil {
			return nil, err
		}
		return object.NewString(s), nil
	}
}

func uuidMethod(source random.SecureSource) vm.NativeFunc {
	return func(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
		s, err := source.UUID()
		if err != nil {
			return nil, err
		}
		return object.NewString(s), nil
	}
}

// numberMethod follows the reference contract: no argument yields a float in
// [0, 1); a positive integer bound yields an integer below it.
func numberMethod(source random.SecureSource) vm.NativeFunc {
	return func(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 || args[0] == object.Nil {
			f, err := source.Float()
			if err != nil {
				return nil, err
			}
			return object.NewFloat(f), nil
		}
		max, err := object.AsInt(args[0])
		if err != nil {
			return nil, exception.TypeError("no implicit conversion into Integer")
		}
		n, err := source.Number(max)
		if err != nil {
			return nil, err
		}
		return object.NewInt(n), nil
	}
}
