package render

import "promoreel/internal/assets"

// InputKind identifies one optional encoder input.
type InputKind string

const (
	InputMusic      InputKind = "music"
	InputVoice      InputKind = "voice"
	InputBannerLogo InputKind = "banner-logo"
	InputQRImage    InputKind = "qr-image"
	InputEndLogo    InputKind = "end-logo"
)

// optionalOrder fixes the slot order so indices are assigned in a single
// deterministic pass regardless of which inputs are present.
var optionalOrder = []InputKind{
	InputMusic,
	InputVoice,
	InputBannerLogo,
	InputQRImage,
	InputEndLogo,
}

// inputSlot pairs one optional input with its local path.
type inputSlot struct {
	Kind InputKind
	Path string
}

// InputPlan maps every encoder input to its argument position. Slides occupy
// indices 0..SlideCount-1; each present optional input takes the next free
// index in optionalOrder. Filter graph stream references are derived from
// here and nowhere else.
type InputPlan struct {
	SlideCount int
	slots      []inputSlot
	indices    map[InputKind]int
}

// PlanInputs assigns input indices for the given resolved assets.
func PlanInputs(slideCount int, resolved assets.Resolved) InputPlan {
	paths := map[InputKind]string{
		InputMusic:      resolved.MusicPath,
		InputVoice:      resolved.VoicePath,
		InputBannerLogo: resolved.BannerLogo,
		InputQRImage:    resolved.QRImage,
		InputEndLogo:    resolved.EndLogo,
	}

	plan := InputPlan{
		SlideCount: slideCount,
		indices:    map[InputKind]int{},
	}

	next := slideCount
	for _, kind := range optionalOrder {
		path := paths[kind]
		if path == "" {
			continue
		}
		plan.indices[kind] = next
		plan.slots = append(plan.slots, inputSlot{Kind: kind, Path: path})
		next++
	}
	return plan
}

// Index returns the argument index of an optional input and whether it is
// present.
func (p InputPlan) Index(kind InputKind) (int, bool) {
	idx, ok := p.indices[kind]
	return idx, ok
}

// Has reports whether the optional input is present.
func (p InputPlan) Has(kind InputKind) bool {
	_, ok := p.indices[kind]
	return ok
}

// OptionalPaths returns the optional input paths in assigned index order.
func (p InputPlan) OptionalPaths() []string {
	out := make([]string, len(p.slots))
	for i, slot := range p.slots {
		out[i] = slot.Path
	}
	return out
}

// TotalInputs returns the total number of encoder inputs.
func (p InputPlan) TotalInputs() int {
	return p.SlideCount + len(p.slots)
}
