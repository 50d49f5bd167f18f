package composition

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
)

// Disqualifies reports whether the submitted values of a field trip its
// overlay's disqualify rule. Choice fields match the configured option;
// number, money and slider fields compare against the numeric range.
func Disqualifies(fieldType model.FieldType, overlay Overlay, values ...string) bool {
	rule := overlay.Disqualify
	if rule == nil {
		return false
	}
	switch fieldType {
	case model.FieldTypeSelect, model.FieldTypeCheckbox, model.FieldTypeConnection:
		option := strings.TrimSpace(rule.Option)
		if option == "" {
			return false
		}
		for _, value := range values {
			if strings.EqualFold(strings.TrimSpace(value), option) {
				return true
			}
		}
		return false
	case model.FieldTypeNumber, model.FieldTypeMoney, model.FieldTypeSlider:
		if rule.Min == nil && rule.Max == nil {
			return false
		}
		for _, value := range values {
			n, ok := numericValue(fieldType, value)
			if !ok {
				continue
			}
			if rule.Min != nil && n < *rule.Min {
				return true
			}
			if rule.Max != nil && n > *rule.Max {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func numericValue(fieldType model.FieldType, value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if fieldType == model.FieldTypeMoney {
		return float64(fieldrules.MoneyValue(value)) / 100, true
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
