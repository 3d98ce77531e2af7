// Execution engine: debounced sequential pipeline runs with snapshotting
package core

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"image-chain-studio/internal/imaging"
	"image-chain-studio/internal/metrics"
	"image-chain-studio/internal/ops"
)

// RunStatus is the machine-usable summary of one pipeline run.
type RunStatus struct {
	Success       bool
	StepsExecuted int
	Duration      time.Duration
	Metrics       map[string]float64
	Err           error
}

// Engine produces the processed buffer by applying the enabled pipeline
// steps to the original image in order. Runs are strictly sequential; a run
// request arriving while another run is in flight is dropped, not queued.
type Engine struct {
	registry  *ops.Registry
	imageData *ImageData
	model     *Model
	evaluator *metrics.Evaluator
	logger    *slog.Logger

	running int32

	mu         sync.Mutex
	snapshot   *image.RGBA
	lastStatus RunStatus
	liveMode   bool
	delay      time.Duration
	timer      *time.Timer

	onPreview func(*image.RGBA, RunStatus)
	onError   func(error)
}

const defaultDebounce = 200 * time.Millisecond

func NewEngine(registry *ops.Registry, imageData *ImageData, model *Model, logger *slog.Logger) *Engine {
	return &Engine{
		registry:  registry,
		imageData: imageData,
		model:     model,
		evaluator: metrics.NewEvaluator(logger),
		logger:    logger,
		liveMode:  true,
		delay:     defaultDebounce,
	}
}

// SetCallbacks installs the preview and error callbacks. Both are invoked
// from the run goroutine; GUI consumers must hop to the UI thread themselves.
func (e *Engine) SetCallbacks(onPreview func(*image.RGBA, RunStatus), onError func(error)) {
	e.mu.Lock()
	e.onPreview = onPreview
	e.onError = onError
	e.mu.Unlock()
}

// SetLiveMode toggles automatic debounced re-runs. When off, only RunAsync
// executes the pipeline.
func (e *Engine) SetLiveMode(on bool) {
	e.mu.Lock()
	e.liveMode = on
	if !on && e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
	e.logger.Debug("live mode changed", "enabled", on)
}

// LiveMode reports whether automatic re-runs are enabled.
func (e *Engine) LiveMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.liveMode
}

// SetDebounce sets the live-mode coalescing delay.
func (e *Engine) SetDebounce(d time.Duration) {
	e.mu.Lock()
	e.delay = d
	e.mu.Unlock()
}

// Invalidate requests a re-run after an edit. In live mode the request is
// coalesced: a new edit within the debounce window replaces the pending
// trigger, so a slider drag produces one run after the user pauses. With
// live mode off this is a no-op.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.liveMode {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.delay, func() {
		e.Execute()
	})
}

// RunAsync triggers a run on its own goroutine, for the manual trigger path.
func (e *Engine) RunAsync() {
	go e.Execute()
}

// Execute runs the pipeline once. A call arriving while another run is in
// flight returns the previous status without executing.
func (e *Engine) Execute() RunStatus {
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		e.logger.Debug("run already in flight, dropping request")
		return e.LastStatus()
	}
	defer atomic.StoreInt32(&e.running, 0)

	status := e.run()

	e.mu.Lock()
	e.lastStatus = status
	snapshot := e.snapshot
	onPreview := e.onPreview
	onError := e.onError
	e.mu.Unlock()

	switch {
	case status.Success:
		e.logger.Info("pipeline run complete",
			"steps", status.StepsExecuted,
			"duration", status.Duration)
		if onPreview != nil {
			onPreview(snapshot, status)
		}
	case status.Err != nil && status.Err != ErrNoImage:
		e.logger.Error("pipeline run failed", "error", status.Err)
		if onError != nil {
			onError(status.Err)
		}
	}
	return status
}

// run applies every enabled, resolvable step in order. Exactly one working
// buffer is current at a time; each step's output supersedes and releases
// the previous one, and the deferred release covers every exit path.
func (e *Engine) run() (status RunStatus) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			status = RunStatus{
				Err:      fmt.Errorf("panic during pipeline run: %v", r),
				Duration: time.Since(start),
			}
		}
	}()

	origMat, ok := e.imageData.CloneOriginal()
	if !ok {
		return RunStatus{Err: ErrNoImage, Duration: time.Since(start)}
	}
	original := imaging.Own(origMat)
	defer original.Release()

	current := imaging.Own(original.Mat().Clone())
	defer func() {
		current.Release()
	}()

	ctx := ops.Context{Original: original.Mat()}
	executed := 0

	for _, step := range e.model.Steps() {
		if !step.Enabled {
			continue
		}
		def, known := e.registry.Lookup(step.Kind)
		if !known {
			e.logger.Warn("skipping unknown operation kind", "kind", step.Kind, "step_id", step.ID)
			continue
		}

		result, err := def.Transform(current.Mat(), def.Resolve(step.Params), ctx)
		if err != nil {
			result.Close()
			return RunStatus{
				StepsExecuted: executed,
				Err:           fmt.Errorf("operation %q failed: %w", step.Kind, err),
				Duration:      time.Since(start),
			}
		}
		if result.Empty() {
			result.Close()
			return RunStatus{
				StepsExecuted: executed,
				Err:           fmt.Errorf("operation %q returned an empty buffer", step.Kind),
				Duration:      time.Since(start),
			}
		}

		next := imaging.Own(result)
		current.Release()
		current = next
		executed++
	}

	snapshot, err := imaging.ToRGBA(current.Mat())
	if err != nil {
		return RunStatus{
			StepsExecuted: executed,
			Err:           fmt.Errorf("failed to capture preview snapshot: %w", err),
			Duration:      time.Since(start),
		}
	}
	measured := e.evaluator.Evaluate(original.Mat(), current.Mat())

	e.mu.Lock()
	e.snapshot = snapshot
	e.mu.Unlock()

	return RunStatus{
		Success:       true,
		StepsExecuted: executed,
		Duration:      time.Since(start),
		Metrics:       measured,
	}
}

// Snapshot returns the cached pixel copy of the last successful run's
// output. A failed run leaves the previous snapshot in place.
func (e *Engine) Snapshot() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// LastStatus returns the most recent run's status summary.
func (e *Engine) LastStatus() RunStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastStatus
}

// Close stops any pending debounce trigger.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
}
