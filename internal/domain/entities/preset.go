package entities

import "fmt"

// Preset names a guidance configuration that controls planning tone and
// slide count targets.
type Preset string

const (
	PresetGeneric          Preset = "generic"
	PresetInvestorPitch    Preset = "investor-pitch"
	PresetSalesDeck        Preset = "sales-deck"
	PresetResearchSummary  Preset = "research-summary"
	PresetClassroomLecture Preset = "classroom-lecture"
)

// PresetSpec holds the planning parameters behind a preset name.
type PresetSpec struct {
	// Guidance is the instruction line handed to the content model
	Guidance string

	// TargetSlides is the slide count the planner aims for
	TargetSlides int
}

var presetSpecs = map[Preset]PresetSpec{
	PresetGeneric: {
		Guidance:     "Create a concise professional slide deck.",
		TargetSlides: 12,
	},
	PresetInvestorPitch: {
		Guidance:     "Create an investor pitch deck: problem, solution, market, traction, business model, ask.",
		TargetSlides: 10,
	},
	PresetSalesDeck: {
		Guidance:     "Create a sales deck focused on customer pain points, solution fit, value propositions, and next steps.",
		TargetSlides: 10,
	},
	PresetResearchSummary: {
		Guidance:     "Summarize the research into concise slides: motivation, methods, results, conclusions, future work.",
		TargetSlides: 12,
	},
	PresetClassroomLecture: {
		Guidance:     "Convert into a clear lecture with learning objectives, key points, examples, and summary.",
		TargetSlides: 14,
	},
}

// ParsePreset resolves a preset name to its canonical value.
func ParsePreset(name string) (Preset, error) {
	if name == "" {
		return PresetGeneric, nil
	}
	p := Preset(name)
	if _, ok := presetSpecs[p]; !ok {
		return "", fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// Spec returns the planning parameters for the preset. Unknown presets fall
// back to the generic spec.
func (p Preset) Spec() PresetSpec {
	if spec, ok := presetSpecs[p]; ok {
		return spec
	}
	return presetSpecs[PresetGeneric]
}

// AllPresets lists the supported preset names in a stable order.
func AllPresets() []Preset {
	return []Preset{
		PresetGeneric,
		PresetInvestorPitch,
		PresetSalesDeck,
		PresetResearchSummary,
		PresetClassroomLecture,
	}
}
