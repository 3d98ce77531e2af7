// Pipeline model: the ordered, editable list of operation steps
package core

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"image-chain-studio/internal/ops"
)

// Step is one operation instance in the pipeline. Its id is stable across
// reordering and import.
type Step struct {
	ID      int64
	Kind    string
	Enabled bool
	Params  map[string]interface{}
}

// StepState is the serialization record for one step.
type StepState struct {
	ID         int64                  `json:"id"`
	Kind       string                 `json:"kind"`
	Enabled    bool                   `json:"enabled"`
	Parameters map[string]interface{} `json:"parameters"`
}

// Direction selects a neighbor for Move.
type Direction int

const (
	MoveUp Direction = iota
	MoveDown
)

// Patch carries a partial change for Update. Nil fields are left untouched.
type Patch struct {
	Enabled *bool
	Params  map[string]interface{}
}

// Model holds the ordered pipeline steps. All mutations notify the OnChange
// callback so the engine can schedule a re-run.
type Model struct {
	mu       sync.RWMutex
	registry *ops.Registry
	logger   *slog.Logger
	steps    []*Step
	nextID   int64
	onChange func()
}

func NewModel(registry *ops.Registry, logger *slog.Logger) *Model {
	return &Model{
		registry: registry,
		logger:   logger,
		steps:    make([]*Step, 0),
		nextID:   1,
	}
}

// SetOnChange installs the mutation callback. It is invoked after every
// successful Add, Update, Remove, Move and Import.
func (m *Model) SetOnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Add appends a new enabled step with default parameters and returns its id.
func (m *Model) Add(kind string) (int64, error) {
	def, ok := m.registry.Lookup(kind)
	if !ok {
		return 0, fmt.Errorf("unknown operation kind: %s", kind)
	}

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.steps = append(m.steps, &Step{
		ID:      id,
		Kind:    kind,
		Enabled: true,
		Params:  def.Defaults(),
	})
	m.mu.Unlock()

	m.logger.Info("step added", "kind", kind, "step_id", id)
	m.notify()
	return id, nil
}

// Update merges a partial change into the step matching id. Parameter values
// are coerced against the step's schema. No-op if the id is unknown.
func (m *Model) Update(id int64, patch Patch) bool {
	m.mu.Lock()
	step := m.findLocked(id)
	if step == nil {
		m.mu.Unlock()
		return false
	}

	if patch.Enabled != nil {
		step.Enabled = *patch.Enabled
	}
	if len(patch.Params) > 0 {
		def, known := m.registry.Lookup(step.Kind)
		for name, value := range patch.Params {
			if known {
				value = def.Coerce(name, value)
			}
			step.Params[name] = value
		}
	}
	m.mu.Unlock()

	m.notify()
	return true
}

// Remove deletes the step matching id. No-op if the id is unknown.
func (m *Model) Remove(id int64) bool {
	m.mu.Lock()
	index := m.indexLocked(id)
	if index < 0 {
		m.mu.Unlock()
		return false
	}
	m.steps = append(m.steps[:index], m.steps[index+1:]...)
	m.mu.Unlock()

	m.logger.Info("step removed", "step_id", id)
	m.notify()
	return true
}

// Move swaps the step with its immediate neighbor. Moving the first step up
// or the last step down is a no-op.
func (m *Model) Move(id int64, dir Direction) bool {
	m.mu.Lock()
	index := m.indexLocked(id)
	if index < 0 {
		m.mu.Unlock()
		return false
	}

	target := index - 1
	if dir == MoveDown {
		target = index + 1
	}
	if target < 0 || target >= len(m.steps) {
		m.mu.Unlock()
		return false
	}
	m.steps[index], m.steps[target] = m.steps[target], m.steps[index]
	m.mu.Unlock()

	m.notify()
	return true
}

// Steps returns a deep copy of the ordered steps for execution or display.
func (m *Model) Steps() []Step {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Step, len(m.steps))
	for i, step := range m.steps {
		out[i] = Step{
			ID:      step.ID,
			Kind:    step.Kind,
			Enabled: step.Enabled,
			Params:  copyParams(step.Params),
		}
	}
	return out
}

// Len reports the number of steps.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.steps)
}

// Export returns the ordered step snapshots for serialization.
func (m *Model) Export() []StepState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]StepState, len(m.steps))
	for i, step := range m.steps {
		out[i] = StepState{
			ID:         step.ID,
			Kind:       step.Kind,
			Enabled:    step.Enabled,
			Parameters: copyParams(step.Params),
		}
	}
	return out
}

// ExportJSON serializes the pipeline for the clipboard.
func (m *Model) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(m.Export(), "", "  ")
}

// Import replaces the whole pipeline with the supplied ordered records.
// Positive ids are preserved, everything else gets a fresh id, and the id
// generator advances past the maximum id ever seen. Unknown kinds are kept;
// they are skipped at run time. Parameters for known kinds are seeded from
// defaults and overlaid with the supplied values; unknown parameter keys are
// preserved but never read by execution.
func (m *Model) Import(states []StepState) {
	m.mu.Lock()

	seen := make(map[int64]bool, len(states))
	steps := make([]*Step, 0, len(states))
	maxID := m.nextID - 1

	for _, state := range states {
		id := state.ID
		if id <= 0 || seen[id] {
			maxID++
			id = maxID
		}
		seen[id] = true
		if id > maxID {
			maxID = id
		}

		params := make(map[string]interface{})
		if def, known := m.registry.Lookup(state.Kind); known {
			params = def.Defaults()
			for name, value := range state.Parameters {
				params[name] = def.Coerce(name, value)
			}
		} else {
			m.logger.Warn("imported step has unknown kind", "kind", state.Kind, "step_id", id)
			for name, value := range state.Parameters {
				params[name] = value
			}
		}

		steps = append(steps, &Step{
			ID:      id,
			Kind:    state.Kind,
			Enabled: state.Enabled,
			Params:  params,
		})
	}

	m.steps = steps
	m.nextID = maxID + 1
	m.mu.Unlock()

	m.logger.Info("pipeline imported", "steps", len(steps))
	m.notify()
}

// ImportJSON parses a clipboard payload and replaces the pipeline. A payload
// that is not a JSON array of step-like objects fails with
// ErrMalformedPipeline and leaves the current pipeline unchanged.
func (m *Model) ImportJSON(data []byte) error {
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPipeline, err)
	}

	states := make([]StepState, 0, len(raw))
	for i, record := range raw {
		kind, ok := record["kind"].(string)
		if !ok || kind == "" {
			return fmt.Errorf("%w: record %d has no kind", ErrMalformedPipeline, i)
		}

		state := StepState{Kind: kind, Enabled: true}
		if id, ok := record["id"].(float64); ok {
			state.ID = int64(id)
		}
		if enabled, ok := record["enabled"].(bool); ok {
			state.Enabled = enabled
		}
		if params, ok := record["parameters"].(map[string]interface{}); ok {
			state.Parameters = params
		}
		states = append(states, state)
	}

	m.Import(states)
	return nil
}

func (m *Model) notify() {
	m.mu.RLock()
	fn := m.onChange
	m.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (m *Model) findLocked(id int64) *Step {
	if index := m.indexLocked(id); index >= 0 {
		return m.steps[index]
	}
	return nil
}

func (m *Model) indexLocked(id int64) int {
	for i, step := range m.steps {
		if step.ID == id {
			return i
		}
	}
	return -1
}

func copyParams(params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for name, value := range params {
		out[name] = value
	}
	return out
}
