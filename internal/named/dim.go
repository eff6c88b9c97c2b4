package named

import (
	"fmt"

	"github.com/born-ml/named/internal/names"
)

// Dim selects the axes an operation works on, either by position or by name.
//
// Positional selectors address the engine the way Born's backends do and
// ignore axis names. Named selectors require named inputs.
type Dim struct {
	axis  int
	names []string
	named bool
}

// Axis selects the axis at position i. Negative positions count from the end.
func Axis(i int) Dim {
	return Dim{axis: i}
}

// Named selects axes by name.
//
// Gather accepts an empty selector and infers the target axis; Cat accepts a
// single shared name or one name per input.
func Named(axisNames ...string) Dim {
	return Dim{names: append([]string(nil), axisNames...), named: true}
}

// IsNamed reports whether d selects by name.
func (d Dim) IsNamed() bool {
	return d.named
}

// Position returns the position of a positional selector.
func (d Dim) Position() int {
	return d.axis
}

// Names returns the names of a named selector.
func (d Dim) Names() []string {
	return append([]string(nil), d.names...)
}

// String formats d as "axis(1)" or "named(a, b)".
func (d Dim) String() string {
	if !d.named {
		return fmt.Sprintf("axis(%d)", d.axis)
	}
	return "named" + names.Names(d.names).String()
}

// single returns the only name of d.
func (d Dim) single(op string) (string, error) {
	if !d.named || len(d.names) != 1 {
		return "", names.NameErrorf(op, "expected exactly one axis name, got %v", d)
	}
	return d.names[0], nil
}
