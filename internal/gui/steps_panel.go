// Pipeline steps panel: ordered step list plus the add-operation picker
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-chain-studio/internal/core"
	"image-chain-studio/internal/ops"
)

type StepsPanel struct {
	model    *core.Model
	registry *ops.Registry
	logger   *logrus.Logger

	container *fyne.Container
	list      *widget.List
	addSelect *widget.Select
	addBtn    *widget.Button

	// Cached snapshot backing the list callbacks.
	steps []core.Step

	onSelect func(int64)
}

func NewStepsPanel(model *core.Model, registry *ops.Registry, logger *logrus.Logger) *StepsPanel {
	sp := &StepsPanel{
		model:    model,
		registry: registry,
		logger:   logger,
	}
	sp.initializeUI()
	return sp
}

func (sp *StepsPanel) initializeUI() {
	titles := make([]string, 0, sp.registry.Len())
	byTitle := make(map[string]string, sp.registry.Len())
	for _, kind := range sp.registry.Kinds() {
		def, _ := sp.registry.Lookup(kind)
		titles = append(titles, def.Title)
		byTitle[def.Title] = kind
	}

	sp.addSelect = widget.NewSelect(titles, nil)
	sp.addBtn = widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), func() {
		kind, ok := byTitle[sp.addSelect.Selected]
		if !ok {
			return
		}
		if _, err := sp.model.Add(kind); err != nil {
			sp.logger.WithError(err).Error("failed to add step")
		}
	})

	sp.list = widget.NewList(
		func() int { return len(sp.steps) },
		func() fyne.CanvasObject {
			return container.NewBorder(
				nil, nil,
				widget.NewCheck("", nil),
				container.NewHBox(
					widget.NewButtonWithIcon("", theme.MoveUpIcon(), nil),
					widget.NewButtonWithIcon("", theme.MoveDownIcon(), nil),
					widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), nil),
				),
				widget.NewLabel("Step"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(sp.steps) {
				return
			}
			step := sp.steps[id]

			row := obj.(*fyne.Container)
			label := row.Objects[0].(*widget.Label)
			check := row.Objects[1].(*widget.Check)
			buttons := row.Objects[2].(*fyne.Container)
			upBtn := buttons.Objects[0].(*widget.Button)
			downBtn := buttons.Objects[1].(*widget.Button)
			removeBtn := buttons.Objects[2].(*widget.Button)

			label.SetText(sp.titleFor(step.Kind))

			check.OnChanged = nil
			check.SetChecked(step.Enabled)
			check.OnChanged = func(on bool) {
				sp.model.Update(step.ID, core.Patch{Enabled: &on})
			}

			upBtn.OnTapped = func() { sp.model.Move(step.ID, core.MoveUp) }
			downBtn.OnTapped = func() { sp.model.Move(step.ID, core.MoveDown) }
			removeBtn.OnTapped = func() { sp.model.Remove(step.ID) }
		},
	)

	sp.list.OnSelected = func(id widget.ListItemID) {
		if sp.onSelect != nil && id < len(sp.steps) {
			sp.onSelect(sp.steps[id].ID)
		}
	}

	addRow := container.NewBorder(nil, nil, nil, sp.addBtn, sp.addSelect)
	sp.container = container.NewBorder(
		container.NewVBox(widget.NewCard("", "PIPELINE", nil), addRow),
		nil, nil, nil,
		sp.list,
	)
}

func (sp *StepsPanel) GetContainer() *fyne.Container {
	return sp.container
}

func (sp *StepsPanel) SetOnSelect(fn func(int64)) {
	sp.onSelect = fn
}

// Refresh re-reads the model snapshot backing the list.
func (sp *StepsPanel) Refresh() {
	sp.steps = sp.model.Steps()
	sp.list.Refresh()
}

func (sp *StepsPanel) titleFor(kind string) string {
	if def, ok := sp.registry.Lookup(kind); ok {
		return def.Title
	}
	return kind + " (unknown)"
}
