package fieldrules

import (
	"math"
	"strconv"

	"github.com/goliatone/go-crmforms/pkg/model"
)

const (
	defaultSliderMin  = 0
	defaultSliderMax  = 100
	defaultSliderStep = 1
)

// SliderBounds returns the effective range and step for a slider. Custom
// bounds apply only when Limits is set and describe a non-empty range.
func SliderBounds(cfg model.SliderConfig) (min, max, step float64) {
	min, max, step = defaultSliderMin, defaultSliderMax, defaultSliderStep
	if cfg.Limits && cfg.Max > cfg.Min {
		min, max = cfg.Min, cfg.Max
	}
	if cfg.Step && cfg.StepValue > 0 {
		step = cfg.StepValue
	}
	return min, max, step
}

// ClampSlider accepts v when it lies inside the slider range and rejects it
// otherwise; the committed value is never silently moved.
func ClampSlider(cfg model.SliderConfig, v float64) (float64, bool) {
	min, max, _ := SliderBounds(cfg)
	if math.IsNaN(v) || v < min || v > max {
		return 0, false
	}
	return v, true
}

// SnapSlider rounds v to the nearest step from min, staying inside the range.
func SnapSlider(cfg model.SliderConfig, v float64) float64 {
	min, max, step := SliderBounds(cfg)
	snapped := min + math.Round((v-min)/step)*step
	return math.Max(min, math.Min(max, snapped))
}

// SliderDefault is the initial value of an untouched slider.
func SliderDefault(cfg model.SliderConfig) float64 {
	min, _, _ := SliderBounds(cfg)
	return min
}

// SliderLabel renders the value shown next to the slider, substituting the
// start and end labels at the extremes when configured.
func SliderLabel(cfg model.SliderConfig, v float64) string {
	min, max, _ := SliderBounds(cfg)
	if cfg.StartEnd {
		if v == min && cfg.StartLabel != "" {
			return cfg.StartLabel
		}
		if v == max && cfg.EndLabel != "" {
			return cfg.EndLabel
		}
	}
	return FormatNumber(v)
}

// FormatNumber renders v without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
