package controls

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
)

// sliderControl keeps the range input and its numeric twin in sync; both
// write through Set.
type sliderControl struct {
	base
	value float64
}

func newSlider(b base) *sliderControl {
	return &sliderControl{base: b, value: fieldrules.SliderDefault(b.field.Slider())}
}

func (c *sliderControl) Value() any { return c.value }

func (c *sliderControl) Set(input string) error {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(input), ",", "."), 64)
	if err != nil {
		return ErrRejected
	}
	committed, ok := fieldrules.ClampSlider(c.field.Slider(), v)
	if !ok {
		return ErrRejected
	}
	c.value = committed
	c.notify(committed)
	return nil
}

func (c *sliderControl) View() View {
	v := c.view()
	v.Value = fieldrules.FormatNumber(c.value)
	v.Display = fieldrules.SliderLabel(c.field.Slider(), c.value)
	return v
}
