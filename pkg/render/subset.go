package render

import "slices"

// Subset restricts rendering. Steps selects step indexes and Fields selects
// field ids; an empty Subset keeps everything.
type Subset struct {
	Steps  []int
	Fields []string
}

func (s Subset) empty() bool { return len(s.Steps) == 0 && len(s.Fields) == 0 }

// ApplySubset filters steps, dropping any left without fields. Remaining
// steps keep their original indexes.
func ApplySubset(steps []Step, subset Subset) []Step {
	if subset.empty() {
		return steps
	}
	out := make([]Step, 0, len(steps))
	for _, step := range steps {
		if len(subset.Steps) > 0 && !slices.Contains(subset.Steps, step.Index) {
			continue
		}
		if len(subset.Fields) > 0 {
			kept := step.Fields[:0:0]
			for _, f := range step.Fields {
				if slices.Contains(subset.Fields, f.ID) {
					kept = append(kept, f)
				}
			}
			step.Fields = kept
		}
		if len(step.Fields) > 0 {
			out = append(out, step)
		}
	}
	return out
}
