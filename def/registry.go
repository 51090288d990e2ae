package def

import (
	"fmt"
	"reflect"
	"time"

	"github.com/statemill/statemill"
)

// TypeRegistry resolves the type names used in definition signatures to
// reflect.Type witnesses.
type TypeRegistry struct {
	types map[string]reflect.Type
}

// NewTypeRegistry creates a registry pre-populated with common builtins:
// string, bool, the sized and unsized integer and float types, []byte,
// time.Time and time.Duration.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]reflect.Type)}
	RegisterType[string](r, "string")
	RegisterType[bool](r, "bool")
	RegisterType[int](r, "int")
	RegisterType[int32](r, "int32")
	RegisterType[int64](r, "int64")
	RegisterType[uint](r, "uint")
	RegisterType[uint32](r, "uint32")
	RegisterType[uint64](r, "uint64")
	RegisterType[float32](r, "float32")
	RegisterType[float64](r, "float64")
	RegisterType[[]byte](r, "bytes")
	RegisterType[time.Time](r, "time")
	RegisterType[time.Duration](r, "duration")
	return r
}

// Register binds a name to a type witness, replacing any previous binding.
func (r *TypeRegistry) Register(name string, t reflect.Type) {
	r.types[name] = t
}

// RegisterType binds a name to the type T.
func RegisterType[T any](r *TypeRegistry, name string) {
	r.Register(name, statemill.TypeOf[T]())
}

// Lookup resolves a type name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// resolve maps a signature's type names to type witnesses, in order.
func (r *TypeRegistry) resolve(sig Signature) ([]reflect.Type, error) {
	types := make([]reflect.Type, len(sig))
	for i, name := range sig {
		t, ok := r.types[name]
		if !ok {
			return nil, fmt.Errorf("unknown parameter type %q at position %d", name, i)
		}
		types[i] = t
	}
	return types, nil
}
