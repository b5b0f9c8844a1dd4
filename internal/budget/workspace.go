package budget

import (
	"sync"

	"battery-budget/internal/model"
)

// Workspace owns the current plan between recomputes. Readers always get a
// copy, so a computation in flight never sees a concurrent edit.
type Workspace struct {
	mu     sync.RWMutex
	inputs model.Inputs
	engine *Engine
}

func NewWorkspace(engine *Engine, initial model.Inputs) *Workspace {
	if engine == nil {
		engine = New()
	}
	return &Workspace{engine: engine, inputs: initial.Clone()}
}

// Inputs returns a copy of the current plan.
func (w *Workspace) Inputs() model.Inputs {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.inputs.Clone()
}

// Replace stores a copy of in as the current plan.
func (w *Workspace) Replace(in model.Inputs) {
	c := in.Clone()
	w.mu.Lock()
	w.inputs = c
	w.mu.Unlock()
}

// Reload swaps in the plan returned by load. On error the current plan is
// kept and the error returned.
func (w *Workspace) Reload(load func() (model.Inputs, error)) error {
	in, err := load()
	if err != nil {
		return err
	}
	w.Replace(in)
	return nil
}

// Compute runs the engine on a snapshot of the current plan.
func (w *Workspace) Compute() *Result {
	return w.engine.Run(w.Inputs())
}
