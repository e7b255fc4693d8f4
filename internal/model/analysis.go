package model

// ChannelDelta compares one mapped snapshot channel against its recommendation.
type ChannelDelta struct {
	Number              int         `json:"number"`
	Name                string      `json:"name"`
	Source              InputSource `json:"source"`
	Recommended         GainRange   `json:"recommendedGain"`
	GainDB              *float64    `json:"gainDb,omitempty"`
	GainDeltaDB         *float64    `json:"gainDeltaDb,omitempty"`
	HPFHz               *float64    `json:"hpfHz,omitempty"`
	TargetHPFHz         *float64    `json:"targetHpfHz,omitempty"`
	HPFDeltaHz          *float64    `json:"hpfDeltaHz,omitempty"`
	HPFStatus           HPFStatus   `json:"hpfStatus"`
	Status              DeltaStatus `json:"status"`
	Inferred            bool        `json:"inferred"`
	PhantomOnLineSource bool        `json:"phantomOnLineSource,omitempty"`
}

// UnmappedChannel is a snapshot channel that could not be paired.
type UnmappedChannel struct {
	Number int            `json:"number"`
	Name   string         `json:"name"`
	Reason UnmappedReason `json:"reason"`
}

// MixerAnalysis is the engine output of a snapshot comparison.
type MixerAnalysis struct {
	Console        ConsoleModel      `json:"console"`
	Channels       []ChannelDelta    `json:"channels"`
	Unmapped       []UnmappedChannel `json:"unmapped"`
	MappedCount    int               `json:"mappedCount"`
	GradedCount    int               `json:"gradedCount"`
	WithinCount    int               `json:"withinCount"`
	WithinFraction float64           `json:"withinFraction"`
	Grade          Grade             `json:"grade"`
}
