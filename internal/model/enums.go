package model

// Room sizes
type RoomSize string

const (
	RoomSmall  RoomSize = "small"
	RoomMedium RoomSize = "medium"
	RoomLarge  RoomSize = "large"
)

var ValidRoomSizes = []RoomSize{RoomSmall, RoomMedium, RoomLarge}

// Room surfaces
type RoomSurface string

const (
	SurfaceAbsorbent  RoomSurface = "absorbent"
	SurfaceReflective RoomSurface = "reflective"
	SurfaceMixed      RoomSurface = "mixed"
)

var ValidRoomSurfaces = []RoomSurface{SurfaceAbsorbent, SurfaceReflective, SurfaceMixed}

// Band composition
type BandComposition string

const (
	BandAcoustic BandComposition = "acoustic"
	BandSmall    BandComposition = "small"
	BandFull     BandComposition = "full"
)

// Drum configurations
type DrumConfig string

const (
	DrumsNone       DrumConfig = "none"
	DrumsAcoustic   DrumConfig = "acoustic"
	DrumsShielded   DrumConfig = "shielded"
	DrumsElectronic DrumConfig = "electronic"
	DrumsCajon      DrumConfig = "cajon"
)

// DetailLevel gates how much of a channel strip a recommendation fills in.
type DetailLevel string

const (
	DetailEssentials DetailLevel = "essentials"
	DetailDetailed   DetailLevel = "detailed"
	DetailFull       DetailLevel = "full"
)

func (d DetailLevel) rank() int {
	switch d {
	case DetailDetailed:
		return 1
	case DetailFull:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether d includes everything min includes.
// Unknown levels behave as essentials.
func (d DetailLevel) AtLeast(min DetailLevel) bool {
	return d.rank() >= min.rank()
}

// Vocal ranges
type VocalRange string

const (
	RangeSoprano  VocalRange = "soprano"
	RangeAlto     VocalRange = "alto"
	RangeTenor    VocalRange = "tenor"
	RangeBaritone VocalRange = "baritone"
)

// Vocal delivery styles, softest first
type VocalStyle string

const (
	StyleSoft       VocalStyle = "soft"
	StyleModerate   VocalStyle = "moderate"
	StylePowerful   VocalStyle = "powerful"
	StyleAggressive VocalStyle = "aggressive"
)

// IsLoud reports whether the style runs hot enough to need extra headroom.
func (s VocalStyle) IsLoud() bool {
	return s == StylePowerful || s == StyleAggressive
}

// Microphone types
type MicType string

const (
	MicDynamic   MicType = "dynamic"
	MicCondenser MicType = "condenser"
	MicHeadset   MicType = "headset"
	MicLavalier  MicType = "lavalier"
)

// Song intensity
type Intensity string

const (
	IntensitySoft    Intensity = "soft"
	IntensityMedium  Intensity = "medium"
	IntensityDriving Intensity = "driving"
	IntensityAllOut  Intensity = "all_out"
)

// Warning severity
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// MaskingBand names the region of a song's key a channel competes with.
type MaskingBand string

const (
	MaskingBass MaskingBand = "bass"
	MaskingMud  MaskingBand = "mud"
)

// SPL flagging modes
type SPLMode string

const (
	SPLStrict   SPLMode = "strict"
	SPLBalanced SPLMode = "balanced"
	SPLRelaxed  SPLMode = "relaxed"
)

// Per-channel delta classification
type DeltaStatus string

const (
	DeltaWithin    DeltaStatus = "within"
	DeltaUnder     DeltaStatus = "under"
	DeltaOver      DeltaStatus = "over"
	DeltaNoReading DeltaStatus = "no_reading"
)

// HPF comparison outcome
type HPFStatus string

const (
	HPFMatched       HPFStatus = "matched"
	HPFLow           HPFStatus = "low"
	HPFHigh          HPFStatus = "high"
	HPFMissing       HPFStatus = "missing"
	HPFUnexpected    HPFStatus = "unexpected"
	HPFNotApplicable HPFStatus = "not_applicable"
)

// Aggregate mix grade
type Grade string

const (
	GradeClean          Grade = "clean"
	GradeGood           Grade = "good"
	GradeNeedsAttention Grade = "needs_attention"
	GradeOverTarget     Grade = "over_target"
	GradeUnrated        Grade = "unrated"
)

// Why a snapshot channel was left out of grading
type UnmappedReason string

const (
	UnmappedNoMatch        UnmappedReason = "no_match"
	UnmappedNotRecommended UnmappedReason = "not_in_recommendation"
	UnmappedInvalidMapping UnmappedReason = "invalid_mapping"
)

// Job status
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusRunning    JobStatus = "running"
	JobStatusSucceeded  JobStatus = "succeeded"
	JobStatusFailed     JobStatus = "failed"
	JobStatusSuperseded JobStatus = "superseded"
)
