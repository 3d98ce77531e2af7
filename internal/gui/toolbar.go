// Top toolbar: file operations, pipeline clipboard I/O, run controls
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-chain-studio/internal/compare"
	"image-chain-studio/internal/core"
	"image-chain-studio/internal/io"
)

type Toolbar struct {
	window    fyne.Window
	imageData *core.ImageData
	model     *core.Model
	engine    *core.Engine
	loader    *io.ImageLoader
	logger    *logrus.Logger

	container *fyne.Container

	openBtn  *widget.Button
	saveBtn  *widget.Button
	copyBtn  *widget.Button
	pasteBtn *widget.Button
	runBtn   *widget.Button
	liveChk  *widget.Check
	modeSel  *widget.Select

	// Callbacks
	onImageLoaded func()
	onViewChanged func(compare.Mode)
}

func NewToolbar(window fyne.Window, imageData *core.ImageData, model *core.Model, engine *core.Engine, loader *io.ImageLoader, logger *logrus.Logger) *Toolbar {
	tb := &Toolbar{
		window:    window,
		imageData: imageData,
		model:     model,
		engine:    engine,
		loader:    loader,
		logger:    logger,
	}
	tb.initializeUI()
	return tb
}

func (tb *Toolbar) initializeUI() {
	tb.openBtn = widget.NewButtonWithIcon("OPEN IMAGE", theme.FolderOpenIcon(), tb.openImage)
	tb.openBtn.Importance = widget.HighImportance

	tb.saveBtn = widget.NewButtonWithIcon("SAVE IMAGE", theme.DocumentSaveIcon(), tb.saveImage)
	tb.saveBtn.Importance = widget.HighImportance

	tb.copyBtn = widget.NewButtonWithIcon("Copy Pipeline", theme.ContentCopyIcon(), tb.copyPipeline)
	tb.pasteBtn = widget.NewButtonWithIcon("Paste Pipeline", theme.ContentPasteIcon(), tb.pastePipeline)

	tb.runBtn = widget.NewButtonWithIcon("Run", theme.MediaPlayIcon(), func() {
		tb.engine.RunAsync()
	})

	tb.liveChk = widget.NewCheck("Live", func(on bool) {
		tb.engine.SetLiveMode(on)
		if on {
			tb.engine.Invalidate()
		}
	})
	tb.liveChk.SetChecked(true)

	tb.modeSel = widget.NewSelect([]string{"Wipe", "Side by Side"}, func(choice string) {
		if tb.onViewChanged == nil {
			return
		}
		mode := compare.Wipe
		if choice == "Side by Side" {
			mode = compare.SideBySide
		}
		tb.onViewChanged(mode)
	})
	tb.modeSel.SetSelected("Wipe")

	fileSection := container.NewHBox(tb.openBtn, tb.saveBtn, widget.NewSeparator(), tb.copyBtn, tb.pasteBtn)
	runSection := container.NewHBox(tb.runBtn, tb.liveChk, widget.NewLabel("View:"), tb.modeSel)

	tb.container = container.NewBorder(nil, nil, fileSection, runSection)
}

func (tb *Toolbar) GetContainer() *fyne.Container {
	return tb.container
}

func (tb *Toolbar) SetOnImageLoaded(fn func()) {
	tb.onImageLoaded = fn
}

func (tb *Toolbar) SetOnViewChanged(fn func(compare.Mode)) {
	tb.onViewChanged = fn
}

func (tb *Toolbar) openImage() {
	tb.logger.Debug("open image requested")
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		mat, err := tb.loader.Load(path)
		if err != nil {
			tb.logger.WithError(err).Error("failed to load image")
			dialog.ShowError(err, tb.window)
			return
		}

		if err := tb.imageData.SetOriginal(mat, path); err != nil {
			mat.Close()
			dialog.ShowError(err, tb.window)
			return
		}

		tb.logger.WithField("path", path).Info("image opened")
		if tb.onImageLoaded != nil {
			tb.onImageLoaded()
		}
		tb.engine.RunAsync()
	}, tb.window)
}

func (tb *Toolbar) saveImage() {
	snapshot := tb.engine.Snapshot()
	if snapshot == nil {
		dialog.ShowError(fmt.Errorf("nothing to save: no processed image yet"), tb.window)
		return
	}

	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		path := writer.URI().Path()
		if err := tb.loader.Save(snapshot, path); err != nil {
			tb.logger.WithError(err).Error("failed to save image")
			dialog.ShowError(err, tb.window)
			return
		}
		tb.logger.WithField("path", path).Info("image saved")
	}, tb.window)
}

func (tb *Toolbar) copyPipeline() {
	data, err := tb.model.ExportJSON()
	if err != nil {
		dialog.ShowError(err, tb.window)
		return
	}
	tb.window.Clipboard().SetContent(string(data))
	tb.logger.WithField("steps", tb.model.Len()).Info("pipeline copied to clipboard")
}

func (tb *Toolbar) pastePipeline() {
	content := tb.window.Clipboard().Content()
	if err := tb.model.ImportJSON([]byte(content)); err != nil {
		tb.logger.WithError(err).Warn("pipeline import rejected")
		dialog.ShowError(err, tb.window)
		return
	}
	tb.logger.WithField("steps", tb.model.Len()).Info("pipeline imported from clipboard")
}
