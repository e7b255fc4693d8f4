package model

// SnapshotChannel is one channel as read from a console or an imported file.
// Readings the source could not supply are nil.
type SnapshotChannel struct {
	Number  int      `json:"number" validate:"min=0"`
	Name    string   `json:"name" validate:"max=64"`
	GainDB  *float64 `json:"gainDb,omitempty"`
	FaderDB *float64 `json:"faderDb,omitempty"`
	HPFHz   *float64 `json:"hpfHz,omitempty" validate:"omitempty,min=0"`
	Phantom bool     `json:"phantom"`
}

// MixerSnapshot is a captured reading of a console's input channels.
type MixerSnapshot struct {
	Console  ConsoleModel      `json:"console"`
	Channels []SnapshotChannel `json:"channels" validate:"max=256,dive"`
}

// ChannelMapping pins snapshot channel numbers to input sources.
type ChannelMapping map[int]InputSource

// SPLPreference carries the operator's loudness preference.
type SPLPreference struct {
	TargetDB float64 `json:"targetDb" validate:"omitempty,min=60,max=120"`
	Mode     SPLMode `json:"mode" validate:"omitempty,oneof=strict balanced relaxed"`
}

// DefaultSPLPreference is a typical worship-service target.
func DefaultSPLPreference() SPLPreference {
	return SPLPreference{TargetDB: 90, Mode: SPLBalanced}
}
