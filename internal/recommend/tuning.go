package recommend

import "github.com/sanctuarysound/api/internal/model"

// StyleAdjust modifies a vocal compressor baseline for a delivery style.
type StyleAdjust struct {
	RatioDelta       float64
	ThresholdDeltaDB float64
	AttackScale      float64
	ReleaseScale     float64
}

// Tuning collects every numeric rule the engine applies outside the
// per-source tables. The zero value is not useful; start from DefaultTuning.
type Tuning struct {
	// Gain staging
	MicGainShiftDB       map[model.MicType]float64
	LoudCeilingFraction  map[model.VocalStyle]float64
	FaderNudgeDB         map[model.RoomSurface]float64
	GainRoundingStepDB   float64
	BackingVocalHPFDelta float64

	// Filters and EQ
	VocalHPFHz       map[model.VocalRange]float64
	LowEndHPFRaiseHz float64
	MudCutDB         map[model.RoomSurface]float64
	MudCutQ          float64

	// Dynamics
	StyleAdjust       map[model.VocalStyle]StyleAdjust
	MinRatio          float64
	MinAttackMs       float64
	PeakReferenceDBFS float64

	// Key conflicts
	MaskingHalfWidthSemitones float64
	IntensityWeight           map[model.Intensity]float64
	HighSeverityScore         float64
	ModerateSeverityScore     float64

	// Service notes
	RoomChannelCapacity map[model.RoomSize]int
	RT60Threshold       map[model.RoomSize]float64
}

// DefaultTuning returns the documented starting constants.
//
// Gain values are preamp dB on a 0–60 dB style scale; frequencies are Hz;
// the masking half-width is measured in semitones either side of the
// song's target frequency.
func DefaultTuning() Tuning {
	return Tuning{
		MicGainShiftDB: map[model.MicType]float64{
			model.MicDynamic:   0,
			model.MicCondenser: -10,
			model.MicHeadset:   -8,
			model.MicLavalier:  -6,
		},
		LoudCeilingFraction: map[model.VocalStyle]float64{
			model.StylePowerful:   0.7,
			model.StyleAggressive: 0.5,
		},
		FaderNudgeDB: map[model.RoomSurface]float64{
			model.SurfaceReflective: 2,
			model.SurfaceAbsorbent:  -2,
			model.SurfaceMixed:      0,
		},
		GainRoundingStepDB:   0.5,
		BackingVocalHPFDelta: 10,

		VocalHPFHz: map[model.VocalRange]float64{
			model.RangeSoprano:  120,
			model.RangeAlto:     110,
			model.RangeTenor:    100,
			model.RangeBaritone: 80,
		},
		LowEndHPFRaiseHz: 30,
		MudCutDB: map[model.RoomSurface]float64{
			model.SurfaceAbsorbent:  -2,
			model.SurfaceMixed:      -3,
			model.SurfaceReflective: -5,
		},
		MudCutQ: 1.4,

		StyleAdjust: map[model.VocalStyle]StyleAdjust{
			model.StyleSoft:       {RatioDelta: -1, ThresholdDeltaDB: -3, AttackScale: 1.5, ReleaseScale: 1.25},
			model.StyleModerate:   {AttackScale: 1, ReleaseScale: 1},
			model.StylePowerful:   {RatioDelta: 1, ThresholdDeltaDB: 0, AttackScale: 0.6, ReleaseScale: 0.9},
			model.StyleAggressive: {RatioDelta: 2, ThresholdDeltaDB: 2, AttackScale: 0.3, ReleaseScale: 0.75},
		},
		MinRatio:          1.5,
		MinAttackMs:       1,
		PeakReferenceDBFS: -6,

		MaskingHalfWidthSemitones: 4,
		IntensityWeight: map[model.Intensity]float64{
			model.IntensitySoft:    0,
			model.IntensityMedium:  0.1,
			model.IntensityDriving: 0.25,
			model.IntensityAllOut:  0.4,
		},
		HighSeverityScore:     1.0,
		ModerateSeverityScore: 0.6,

		RoomChannelCapacity: map[model.RoomSize]int{
			model.RoomSmall:  16,
			model.RoomMedium: 32,
			model.RoomLarge:  64,
		},
		RT60Threshold: map[model.RoomSize]float64{
			model.RoomSmall:  0.8,
			model.RoomMedium: 1.3,
			model.RoomLarge:  2.0,
		},
	}
}

// WithMaskingHalfWidth returns a copy of t using the given masking half-width.
// Non-positive values are ignored.
func (t Tuning) WithMaskingHalfWidth(semitones float64) Tuning {
	if semitones > 0 {
		t.MaskingHalfWidthSemitones = semitones
	}
	return t
}
