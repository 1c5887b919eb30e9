// Package rand exposes the seeded pseudo-random capability to scripts as
// the Random class. Instances are deterministic for a given seed and
// backend; the backend itself is chosen at build time.
package rand

import (
	"github.com/garnet-lang/garnet/exception"
	"github.com/garnet-lang/garnet/object"
	"github.com/garnet-lang/garnet/random"
	"github.com/garnet-lang/garnet/vm"
)

// Register defines the Random class over the given backend. Random.new with
// no argument seeds from seeder, which the embedding layer supplies (a
// cryptographic source by default).
func Register(m *vm.Machine, backend random.Backend, seeder func() uint64) error {
	_, err := vm.BuildClass("Random").
		SMethod("new", newRandom(backend, seeder), vm.Arity{Min: 0, Max: 1}).
		Method("seed", seed, vm.Arity{}).
		Method("rand", randMethod, vm.Arity{Min: 0, Max: 1}).
		Method("bytes", bytesMethod, vm.Arity{Min: 1, Max: 1}).
		Define(m)
	return err
}

func newRandom(backend random.Backend, seeder func() uint64) vm.NativeFunc {
	return func(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
		var seed uint64
		if len(args) == 1 && args[0] != object.Nil {
			value, err := object.AsInt(args[0])
			if err != nil {
				return nil, exception.TypeError("no implicit conversion into Integer")
			}
			seed = uint64(value)
		} else {
			seed = seeder()
		}
		instance := object.NewInstance(m.MustClass("Random"))
		instance.SetData(backend.New(seed))
		return instance, nil
	}
}

func sourceOf(self object.Value) (random.Source, error) {
	instance, err := object.AsInstance(self)
	if err != nil {
		return nil, err
	}
	source, ok := instance.Data().(random.Source)
	if !ok {
		return nil, exception.TypeError("uninitialized Random")
	}
	return source, nil
}

func seed(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	source, err := sourceOf(self)
	if err != nil {
		return nil, err
	}
	return object.NewInt(int64(source.SeedValue())), nil
}

// randMethod follows the conventional contract: no argument (or 0, or a
// float bound) yields a float in [0, 1); a positive integer bound yields an
// integer in [0, bound); negative bounds are rejected.
func randMethod(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	source, err := sourceOf(self)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 || args[0] == object.Nil {
		return object.NewFloat(source.Float()), nil
	}
	switch bound := args[0].(type) {
	case *object.Int:
		n := bound.Value()
		if n < 0 {
			return nil, exception.ArgumentError("invalid argument - %d", n)
		}
		if n == 0 {
			return object.NewFloat(source.Float()), nil
		}
		return object.NewInt(source.Int(n)), nil
	case *object.Float:
		max := bound.Value()
		if max < 0 {
			return nil, exception.ArgumentError("invalid argument - %g", max)
		}
		return object.NewFloat(source.Float() * max), nil
	default:
		return nil, exception.TypeError("no implicit conversion into Integer")
	}
}

func bytesMethod(m *vm.Machine, self object.Value, args []object.Value) (object.Value, error) {
	source, err := sourceOf(self)
	if err != nil {
		return nil, err
	}
	n, err := object.AsInt(args[0])
	if err != nil {
		return nil, exception.TypeError("no implicit conversion into Integer")
	}
	if n < 0 {
		return nil, exception.ArgumentError("negative size (or size too big)")
	}
	buf := make([]byte, n)
	source.Bytes(buf)
	return object.NewBytes(buf), nil
}
