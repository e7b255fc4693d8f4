package model

import "math"

// GainRange is a closed preamp gain interval in dB.
type GainRange struct {
	LowDB  float64 `json:"lowDb"`
	HighDB float64 `json:"highDb"`
}

// Contains reports whether v lies inside the closed interval.
func (g GainRange) Contains(v float64) bool {
	return v >= g.LowDB && v <= g.HighDB
}

func (g GainRange) Mid() float64 {
	return (g.LowDB + g.HighDB) / 2
}

// Clamp pulls v into the interval.
func (g GainRange) Clamp(v float64) float64 {
	return math.Min(math.Max(v, g.LowDB), g.HighDB)
}

// DeltaFrom returns v minus the nearer bound, or zero when v is inside.
func (g GainRange) DeltaFrom(v float64) float64 {
	switch {
	case v < g.LowDB:
		return v - g.LowDB
	case v > g.HighDB:
		return v - g.HighDB
	default:
		return 0
	}
}

// EQBand is one parametric EQ suggestion.
type EQBand struct {
	FrequencyHz float64 `json:"frequencyHz"`
	Q           float64 `json:"q"`
	GainDB      float64 `json:"gainDb"`
	Reason      string  `json:"reason"`
}

// IsBoost reports whether the band adds energy.
func (b EQBand) IsBoost() bool {
	return b.GainDB > 0
}

// CompressorSetting is a starting point for channel dynamics.
type CompressorSetting struct {
	ThresholdDB  float64 `json:"thresholdDb"`
	Ratio        float64 `json:"ratio"`
	AttackMs     float64 `json:"attackMs"`
	ReleaseMs    float64 `json:"releaseMs"`
	MakeupGainDB float64 `json:"makeupGainDb"`
	Reason       string  `json:"reason"`
}

// KeyWarning flags a channel whose emphasis competes with a song's key.
type KeyWarning struct {
	SongTitle   string      `json:"songTitle"`
	Key         MusicalKey  `json:"key"`
	FrequencyHz float64     `json:"frequencyHz"`
	Band        MaskingBand `json:"band"`
	Severity    Severity    `json:"severity"`
	Suggestion  string      `json:"suggestion"`
}

// ChannelRecommendation holds the starting settings for one active channel.
// Fields gated by detail level are left empty below their level.
type ChannelRecommendation struct {
	Channel      InputChannel       `json:"channel"`
	GainRange    GainRange          `json:"gainRange"`
	FaderStartDB float64            `json:"faderStartDb"`
	HeadroomDB   float64            `json:"headroomDb"`
	HPFHz        *float64           `json:"hpfHz,omitempty"`
	EQ           []EQBand           `json:"eq,omitempty"`
	Compressor   *CompressorSetting `json:"compressor,omitempty"`
	KeyWarnings  []KeyWarning       `json:"keyWarnings,omitempty"`
	Notes        []string           `json:"notes,omitempty"`
}

// MixerSettingRecommendation is the engine output for a whole service.
type MixerSettingRecommendation struct {
	Service  Service                 `json:"service"`
	Channels []ChannelRecommendation `json:"channels"`
	Notes    []string                `json:"notes,omitempty"`
}
