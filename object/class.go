package object

// ClassID is the stable identifier of a class registered with the machine.
type ClassID int

// Class identifies a class or module installed in the machine's namespace.
// The superclass links form the ancestor chain used for method lookup and
// rescue matching. Classes are created through the machine's registration
// surface and are immutable afterward.
type Class struct {
	id    ClassID
	name  string
	super *Class
}

// NewClass creates a class identity. Intended for use by the machine's
// class registry; extension code receives classes, it does not build them.
func NewClass(id ClassID, name string, super *Class) *Class {
	return &Class{id: id, name: name, super: super}
}

func (c *Class) Type() Type {
	return CLASS
}

func (c *Class) ID() ClassID {
	return c.id
}

func (c *Class) Name() string {
	return c.name
}

// Super returns the superclass, or nil for the root.
func (c *Class) Super() *Class {
	return c.super
}

// Ancestors returns the ancestor chain starting at the class itself and
// ending at the root.
func (c *Class) Ancestors() []*Class {
	var chain []*Class
	for k := c; k != nil; k = k.super {
		chain = append(chain, k)
	}
	return chain
}

// IsA reports whether other appears in the receiver's ancestor chain.
func (c *Class) IsA(other *Class) bool {
	for k := c; k != nil; k = k.super {
		if k.id == other.id {
			return true
		}
	}
	return false
}

func (c *Class) Inspect() string {
	return c.name
}

func (c *Class) String() string {
	return c.name
}

func (c *Class) Interface() interface{} {
	return c.name
}

func (c *Class) Equals(other Value) bool {
	o, ok := other.(*Class)
	return ok && c.id == o.id
}

func (c *Class) IsTruthy() bool {
	return true
}
