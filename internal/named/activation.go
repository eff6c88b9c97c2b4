package named

import (
	"sync"

	"github.com/born-ml/named/internal/backend/cpu"
	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/nn"
)

// State is the activation state of a Controller.
type State int

// Activation states.
const (
	Unpatched State = iota
	Patched
)

// String returns "unpatched" or "patched".
func (s State) String() string {
	if s == Patched {
		return "patched"
	}
	return "unpatched"
}

// Controller installs and removes the name-aware entry points.
//
// A Controller starts Unpatched with its base Ops current. Activate snapshots
// the current Ops and installs NamedOps over it; Deactivate restores the
// snapshot. Nested activation is an error.
//
// Methods are safe for concurrent use, but activation changes the entry
// points for every caller of the controller: code that expects positional
// semantics must not run while another goroutine has it activated.
type Controller struct {
	mu       sync.Mutex
	current  Ops
	original Ops
	state    State
}

// NewController returns an Unpatched controller dispatching to base.
func NewController(base Ops) *Controller {
	return &Controller{current: base}
}

// Activate installs the name-aware entry points.
// Returns a StateError if the controller is already Patched.
func (c *Controller) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Patched {
		return names.StateErrorf("activate", "named ops are already active")
	}
	c.original = c.current
	c.current = NamedOps(c.original)
	c.state = Patched
	return nil
}

// Deactivate restores the entry points saved by Activate.
// Returns a StateError if the controller is Unpatched.
func (c *Controller) Deactivate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Unpatched {
		return names.StateErrorf("deactivate", "named ops are not active")
	}
	c.current = c.original
	c.original = nil
	c.state = Unpatched
	return nil
}

// Current returns the entry points calls are dispatched to.
func (c *Controller) Current() Ops {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// State returns the activation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsActive reports whether the name-aware entry points are installed.
func (c *Controller) IsActive() bool {
	return c.State() == Patched
}

var defaultController = NewController(EngineOps(cpu.New()))

// Default returns the process-wide controller behind the package-level
// entry points. It computes on the CPU backend.
func Default() *Controller {
	return defaultController
}

// Activate installs the name-aware entry points on the default controller.
func Activate() error {
	return defaultController.Activate()
}

// Deactivate restores the default controller's positional entry points.
func Deactivate() error {
	return defaultController.Deactivate()
}

// IsActive reports whether the default controller is Patched.
func IsActive() bool {
	return defaultController.IsActive()
}

// Package-level entry points dispatch through the default controller.

// Embedding looks up e for the indices in x. See Ops.
func Embedding(e *nn.Embedding, x *Tensor, name string) (*Tensor, error) {
	return defaultController.Current().Embedding(e, x, name)
}

// Index replaces an axis of x by the axes of index. See Ops.
func Index(x *Tensor, dim Dim, index *Tensor) (*Tensor, error) {
	return defaultController.Current().Index(x, dim, index)
}

// Gather picks elements of x along an axis. See Ops.
func Gather(x *Tensor, dim Dim, index *Tensor) (*Tensor, error) {
	return defaultController.Current().Gather(x, dim, index)
}

// ExpandAs broadcasts x to other. See Ops.
func ExpandAs(x, other *Tensor) (*Tensor, error) {
	return defaultController.Current().ExpandAs(x, other)
}

// Arange returns 0..n-1. See Ops.
func Arange(n int, name string) (*Tensor, error) {
	return defaultController.Current().Arange(n, name)
}

// Cat concatenates tensors. See Ops.
func Cat(tensors []*Tensor, dim Dim, newName string) (*Tensor, error) {
	return defaultController.Current().Cat(tensors, dim, newName)
}

// Stack joins tensors along a new axis. See Ops.
func Stack(tensors []*Tensor, dim Dim) (*Tensor, error) {
	return defaultController.Current().Stack(tensors, dim)
}

// Linear applies l to x. See Ops.
func Linear(l *nn.Linear, x *Tensor) (*Tensor, error) {
	return defaultController.Current().Linear(l, x)
}

// SelfAttention attends x to itself with m. See Ops.
func SelfAttention(m *nn.MultiHeadAttention, x *Tensor, name string) (*Tensor, *Tensor, error) {
	return defaultController.Current().SelfAttention(m, x, name)
}

// LeakyReLU applies the leaky rectifier to x. See Ops.
func LeakyReLU(x *Tensor, slope float64) (*Tensor, error) {
	return defaultController.Current().LeakyReLU(x, slope)
}

// ZerosLike returns zeros shaped like x. See Ops.
func ZerosLike(x *Tensor) (*Tensor, error) {
	return defaultController.Current().ZerosLike(x)
}
