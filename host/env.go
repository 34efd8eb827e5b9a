// Package host is the dynamically typed runtime the bindings are exported
// to. An Env is one runtime context; Init attaches a bindings instance to it
// and returns the table of exported functions and constants.
package host

import (
	"errors"
	"sync"
)

var (
	ErrInstanceDataSet = errors.New("instance data already set")
	ErrEnvClosed       = errors.New("runtime context is closed")
)

// Env is one runtime context. Instance data and teardown hooks are private to
// it; nothing is shared between environments.
type Env struct {
	mu     sync.Mutex
	data   any
	hooks  []func()
	closed bool
}

func NewEnv() *Env {
	return &Env{}
}

// SetInstanceData attaches data to the context. finalize, if not nil, runs
// with data when the context is closed. Data can be set only once.
func (e *Env) SetInstanceData(data any, finalize func(any)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEnvClosed
	}
	if e.data != nil {
		return ErrInstanceDataSet
	}
	e.data = data
	if finalize != nil {
		e.hooks = append(e.hooks, func() { finalize(data) })
	}
	return nil
}

func (e *Env) InstanceData() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data
}

// AddCleanupHook registers fn to run when the context is closed.
func (e *Env) AddCleanupHook(fn func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEnvClosed
	}
	e.hooks = append(e.hooks, fn)
	return nil
}

// Close runs the teardown hooks in reverse registration order. Later calls do
// nothing.
func (e *Env) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	hooks := e.hooks
	e.hooks = nil
	e.data = nil
	e.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}
