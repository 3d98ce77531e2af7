// Status panel: image information and the last run's summary
package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-chain-studio/internal/core"
)

type StatusPanel struct {
	logger *logrus.Logger

	container *fyne.Container
	infoLabel *widget.Label
	runLabel  *widget.Label
	psnrLabel *widget.Label
	ssimLabel *widget.Label
}

func NewStatusPanel(logger *logrus.Logger) *StatusPanel {
	sp := &StatusPanel{logger: logger}

	sp.infoLabel = widget.NewLabel("No image loaded")
	sp.infoLabel.Wrapping = fyne.TextWrapWord
	sp.runLabel = widget.NewLabel("No runs yet")
	sp.runLabel.Wrapping = fyne.TextWrapWord
	sp.psnrLabel = widget.NewLabel("PSNR: -")
	sp.ssimLabel = widget.NewLabel("SSIM: -")

	sp.container = container.NewVBox(
		widget.NewCard("", "IMAGE", sp.infoLabel),
		widget.NewCard("", "LAST RUN", container.NewVBox(sp.runLabel, sp.psnrLabel, sp.ssimLabel)),
	)
	return sp
}

func (sp *StatusPanel) GetContainer() *fyne.Container {
	return sp.container
}

// ShowImageInfo displays the loaded image's metadata.
func (sp *StatusPanel) ShowImageInfo(meta core.ImageMetadata) {
	sp.infoLabel.SetText(fmt.Sprintf("%dx%d, %d channels, %s",
		meta.Width, meta.Height, meta.Channels, meta.Format))
}

// ShowStatus displays a run summary.
func (sp *StatusPanel) ShowStatus(status core.RunStatus) {
	if status.Success {
		sp.runLabel.SetText(fmt.Sprintf("OK: %d steps in %s",
			status.StepsExecuted, status.Duration.Round(time.Millisecond)))
	} else if status.Err != nil {
		sp.runLabel.SetText("Failed: " + status.Err.Error())
	}

	sp.psnrLabel.SetText(metricText("PSNR", status.Metrics, "psnr"))
	sp.ssimLabel.SetText(metricText("SSIM", status.Metrics, "ssim"))
}

// ShowError displays a run failure, keeping the previous metric values.
func (sp *StatusPanel) ShowError(err error) {
	sp.runLabel.SetText("Failed: " + err.Error())
}

func metricText(label string, values map[string]float64, key string) string {
	if v, ok := values[key]; ok {
		return fmt.Sprintf("%s: %.2f", label, v)
	}
	return label + ": -"
}
