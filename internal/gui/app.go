// Main application: wires the core components to the panels
package gui

import (
	"image"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-chain-studio/internal/compare"
	"image-chain-studio/internal/core"
	"image-chain-studio/internal/io"
	"image-chain-studio/internal/ops"
)

// Application is the main window and its component graph.
type Application struct {
	app        fyne.App
	window     fyne.Window
	logger     *logrus.Logger
	coreLogger *slog.Logger
	debugMode  bool

	// Core components
	registry  *ops.Registry
	imageData *core.ImageData
	model     *core.Model
	engine    *core.Engine
	loader    *io.ImageLoader

	// GUI components
	canvas      *CompareCanvas
	toolbar     *Toolbar
	stepsPanel  *StepsPanel
	paramsPanel *ParamsPanel
	statusPanel *StatusPanel
}

func NewApplication(app fyne.App, logger *logrus.Logger, debugMode bool, debounce time.Duration) *Application {
	window := app.NewWindow("Image Chain Studio")
	window.Resize(fyne.NewSize(1600, 1000))
	window.CenterOnScreen()

	a := &Application{
		app:        app,
		window:     window,
		logger:     logger,
		coreLogger: newCoreLogger(debugMode),
		debugMode:  debugMode,
	}

	a.initializeCore(debounce)
	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()
	return a
}

// newCoreLogger builds the slog logger the non-GUI packages use.
func newCoreLogger(debugMode bool) *slog.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func (a *Application) initializeCore(debounce time.Duration) {
	a.registry = ops.Builtin()
	a.imageData = core.NewImageData(a.coreLogger)
	a.model = core.NewModel(a.registry, a.coreLogger)
	a.engine = core.NewEngine(a.registry, a.imageData, a.model, a.coreLogger)
	if debounce > 0 {
		a.engine.SetDebounce(debounce)
	}
	a.loader = io.NewImageLoader(a.coreLogger)
}

func (a *Application) initializeGUI() {
	a.canvas = NewCompareCanvas(a.logger)
	a.toolbar = NewToolbar(a.window, a.imageData, a.model, a.engine, a.loader, a.logger)
	a.stepsPanel = NewStepsPanel(a.model, a.registry, a.logger)
	a.paramsPanel = NewParamsPanel(a.model, a.registry, a.logger)
	a.statusPanel = NewStatusPanel(a.logger)
}

func (a *Application) setupLayout() {
	peekBtn := newHoldButton("HOLD TO PEEK ORIGINAL",
		func() { a.canvas.SetPeek(true) },
		func() { a.canvas.SetPeek(false) },
	)

	centerPanel := container.NewBorder(
		nil,
		container.NewHBox(peekBtn),
		nil, nil,
		container.NewPadded(a.canvas),
	)

	leftPanel := container.NewVSplit(
		a.stepsPanel.GetContainer(),
		a.paramsPanel.GetContainer(),
	)
	leftPanel.SetOffset(0.55)

	rightPanel := container.NewVBox(a.statusPanel.GetContainer())

	centerAndRight := container.NewHSplit(centerPanel, rightPanel)
	centerAndRight.SetOffset(0.78)

	mainContent := container.NewHSplit(leftPanel, centerAndRight)
	mainContent.SetOffset(0.24)

	toolbarContainer := container.NewVBox(
		container.NewPadded(a.toolbar.GetContainer()),
		widget.NewSeparator(),
	)

	a.window.SetContent(container.NewBorder(
		toolbarContainer,
		nil, nil, nil,
		mainContent,
	))
}

func (a *Application) setupCallbacks() {
	// Model mutations originate on the UI thread, so the panels can refresh
	// directly; only the engine callbacks need the fyne.Do hop.
	a.model.SetOnChange(func() {
		a.stepsPanel.Refresh()
		a.paramsPanel.Refresh()
		a.engine.Invalidate()
	})

	a.engine.SetCallbacks(
		func(snapshot *image.RGBA, status core.RunStatus) {
			fyne.Do(func() {
				a.canvas.SetSnapshot(snapshot)
				a.statusPanel.ShowStatus(status)
			})
		},
		func(err error) {
			fyne.Do(func() {
				a.statusPanel.ShowError(err)
			})
		},
	)

	a.toolbar.SetOnImageLoaded(func() {
		a.canvas.SetOriginal(a.imageData.OriginalImage())
		a.statusPanel.ShowImageInfo(a.imageData.Metadata())
	})

	a.toolbar.SetOnViewChanged(func(mode compare.Mode) {
		a.canvas.SetMode(mode)
	})

	a.stepsPanel.SetOnSelect(func(id int64) {
		a.paramsPanel.ShowStep(id)
	})

	a.window.SetOnClosed(func() {
		a.logger.Info("shutting down, releasing image buffers")
		a.engine.Close()
		a.imageData.Close()
	})
}

// ShowAndRun displays the main window and enters the event loop.
func (a *Application) ShowAndRun() {
	a.window.ShowAndRun()
}
