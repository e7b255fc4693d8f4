package model

// Room describes the space the service happens in.
type Room struct {
	Size    RoomSize    `json:"size" yaml:"size" validate:"required,oneof=small medium large"`
	Surface RoomSurface `json:"surface" yaml:"surface" validate:"required,oneof=absorbent reflective mixed"`
	// LowEndBuildup is reported by the operator (boomy room, subwoofer pile-up).
	LowEndBuildup bool `json:"lowEndBuildup" yaml:"lowEndBuildup"`
}

var rt60BySize = map[RoomSize]float64{
	RoomSmall:  0.6,
	RoomMedium: 1.0,
	RoomLarge:  1.6,
}

var rt60SurfaceFactor = map[RoomSurface]float64{
	SurfaceAbsorbent:  0.7,
	SurfaceMixed:      1.0,
	SurfaceReflective: 1.4,
}

// EstimatedRT60 is a rough reverberation time in seconds derived from size
// and surface. Unknown values fall back to a medium, mixed room.
func (r Room) EstimatedRT60() float64 {
	base, ok := rt60BySize[r.Size]
	if !ok {
		base = rt60BySize[RoomMedium]
	}
	factor, ok := rt60SurfaceFactor[r.Surface]
	if !ok {
		factor = 1.0
	}
	return base * factor
}

// HasLowEndProblem is true when the operator reported low-end buildup or the
// room is a reflective space big enough to support standing bass waves.
func (r Room) HasLowEndProblem() bool {
	return r.LowEndBuildup || (r.Surface == SurfaceReflective && r.Size != RoomSmall)
}

// VocalProfile refines recommendations for vocal and speech channels.
type VocalProfile struct {
	Range VocalRange `json:"range" yaml:"range" validate:"omitempty,oneof=soprano alto tenor baritone"`
	Style VocalStyle `json:"style" yaml:"style" validate:"omitempty,oneof=soft moderate powerful aggressive"`
	Mic   MicType    `json:"mic" yaml:"mic" validate:"omitempty,oneof=dynamic condenser headset lavalier"`
}

// DefaultVocalProfile is used when a vocal or speech channel has no profile.
func DefaultVocalProfile(s InputSource) VocalProfile {
	p := VocalProfile{Range: RangeAlto, Style: StyleModerate, Mic: MicDynamic}
	switch s {
	case SourceHeadsetSpeech:
		p.Range, p.Mic = RangeBaritone, MicHeadset
	case SourcePodiumSpeech:
		p.Range, p.Mic = RangeBaritone, MicCondenser
	case SourceHandheldSpeech:
		p.Range = RangeBaritone
	case SourceChoir:
		p.Mic = MicCondenser
	}
	return p
}

// Normalized fills empty fields from the source default.
func (p VocalProfile) Normalized(s InputSource) VocalProfile {
	d := DefaultVocalProfile(s)
	if p.Range == "" {
		p.Range = d.Range
	}
	if p.Style == "" {
		p.Style = d.Style
	}
	if p.Mic == "" {
		p.Mic = d.Mic
	}
	return p
}

// InputChannel is one line of the input list.
type InputChannel struct {
	Label        string        `json:"label" yaml:"label" validate:"max=64"`
	Source       InputSource   `json:"source" yaml:"source" validate:"inputsource"`
	VocalProfile *VocalProfile `json:"vocalProfile,omitempty" yaml:"vocalProfile,omitempty" validate:"omitempty"`
	Active       bool          `json:"active" yaml:"active"`
}

// EffectiveVocalProfile returns the channel's profile with defaults applied.
// The second result is false for sources that do not use a profile.
func (c InputChannel) EffectiveVocalProfile() (VocalProfile, bool) {
	if !c.Source.NeedsVocalProfile() {
		return VocalProfile{}, false
	}
	if c.VocalProfile == nil {
		return DefaultVocalProfile(c.Source), true
	}
	return c.VocalProfile.Normalized(c.Source), true
}

// SetlistSong is one song of the set list.
type SetlistSong struct {
	Title     string     `json:"title" yaml:"title" validate:"max=128"`
	Key       MusicalKey `json:"key" yaml:"key"`
	TempoBPM  *int       `json:"tempoBpm,omitempty" yaml:"tempoBpm,omitempty" validate:"omitempty,min=20,max=300"`
	Intensity Intensity  `json:"intensity" yaml:"intensity" validate:"omitempty,oneof=soft medium driving all_out"`
}

// Service is the full description of one event the engines work from.
type Service struct {
	ID       string          `json:"id,omitempty" yaml:"id,omitempty" validate:"max=64"`
	Name     string          `json:"name,omitempty" yaml:"name,omitempty" validate:"max=128"`
	Console  ConsoleModel    `json:"console" yaml:"console"`
	Room     Room            `json:"room" yaml:"room"`
	Band     BandComposition `json:"band" yaml:"band" validate:"omitempty,oneof=acoustic small full"`
	Drums    DrumConfig      `json:"drums" yaml:"drums" validate:"omitempty,oneof=none acoustic shielded electronic cajon"`
	Channels []InputChannel  `json:"channels" yaml:"channels" validate:"max=128,dive"`
	Setlist  []SetlistSong   `json:"setlist" yaml:"setlist" validate:"max=64,dive"`
	Detail   DetailLevel     `json:"detail" yaml:"detail" validate:"omitempty,oneof=essentials detailed full"`
}

// ActiveChannels returns the active channels in input order.
func (s Service) ActiveChannels() []InputChannel {
	out := make([]InputChannel, 0, len(s.Channels))
	for _, c := range s.Channels {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}
