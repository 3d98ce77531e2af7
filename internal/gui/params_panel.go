// Parameters panel: widgets generated from the selected step's schema
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-chain-studio/internal/core"
	"image-chain-studio/internal/ops"
)

type ParamsPanel struct {
	model    *core.Model
	registry *ops.Registry
	logger   *logrus.Logger

	container *fyne.Container
	content   *fyne.Container
	current   int64
}

func NewParamsPanel(model *core.Model, registry *ops.Registry, logger *logrus.Logger) *ParamsPanel {
	pp := &ParamsPanel{
		model:    model,
		registry: registry,
		logger:   logger,
	}
	pp.content = container.NewVBox(widget.NewLabel("Select a step"))
	pp.container = container.NewBorder(
		widget.NewCard("", "PARAMETERS", nil),
		nil, nil, nil,
		container.NewScroll(pp.content),
	)
	return pp
}

func (pp *ParamsPanel) GetContainer() *fyne.Container {
	return pp.container
}

// ShowStep rebuilds the panel for the step matching id.
func (pp *ParamsPanel) ShowStep(id int64) {
	pp.current = id
	pp.rebuild()
}

// Refresh re-resolves the current step; clears the panel if it was removed.
func (pp *ParamsPanel) Refresh() {
	pp.rebuild()
}

func (pp *ParamsPanel) rebuild() {
	step, found := pp.findStep(pp.current)
	if !found {
		pp.current = 0
		pp.setContent(widget.NewLabel("Select a step"))
		return
	}

	def, known := pp.registry.Lookup(step.Kind)
	if !known {
		pp.setContent(widget.NewLabel(fmt.Sprintf("Unknown operation %q: skipped at run time", step.Kind)))
		return
	}
	if len(def.Params) == 0 {
		pp.setContent(widget.NewLabel(def.Title + " has no parameters"))
		return
	}

	resolved := def.Resolve(step.Params)
	rows := make([]fyne.CanvasObject, 0, len(def.Params)*2)
	for _, spec := range def.Params {
		rows = append(rows, pp.buildRow(step.ID, spec, resolved[spec.Name])...)
	}
	pp.setContent(rows...)
}

func (pp *ParamsPanel) buildRow(stepID int64, spec ops.ParamSpec, value interface{}) []fyne.CanvasObject {
	apply := func(v interface{}) {
		pp.model.Update(stepID, core.Patch{Params: map[string]interface{}{spec.Name: v}})
	}

	switch spec.Type {
	case ops.TypeBool:
		check := widget.NewCheck(spec.Name, func(on bool) { apply(on) })
		if b, ok := value.(bool); ok {
			check.SetChecked(b)
		}
		return []fyne.CanvasObject{check}

	case ops.TypeEnum:
		sel := widget.NewSelect(spec.Options, func(choice string) { apply(choice) })
		if s, ok := value.(string); ok {
			sel.SetSelected(s)
		}
		return []fyne.CanvasObject{widget.NewLabel(spec.Name), sel}

	case ops.TypeInt, ops.TypeFloat:
		valueLabel := widget.NewLabel(formatValue(value))
		slider := widget.NewSlider(spec.Min, spec.Max)
		if spec.Step > 0 {
			slider.Step = spec.Step
		}
		slider.SetValue(numeric(value))
		slider.OnChanged = func(v float64) {
			if spec.Type == ops.TypeInt {
				n := int(v)
				if spec.Odd {
					n = ops.CoerceOdd(n)
				}
				valueLabel.SetText(formatValue(n))
				apply(n)
				return
			}
			valueLabel.SetText(formatValue(v))
			apply(v)
		}
		header := container.NewBorder(nil, nil, widget.NewLabel(spec.Name), valueLabel)
		return []fyne.CanvasObject{header, slider}
	}

	return nil
}

func (pp *ParamsPanel) setContent(objects ...fyne.CanvasObject) {
	pp.content.Objects = objects
	pp.content.Refresh()
}

func (pp *ParamsPanel) findStep(id int64) (core.Step, bool) {
	if id == 0 {
		return core.Step{}, false
	}
	for _, step := range pp.model.Steps() {
		if step.ID == id {
			return step, true
		}
	}
	return core.Step{}, false
}

func numeric(value interface{}) float64 {
	switch v := value.(type) {
	case int:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case int:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%v", value)
}
