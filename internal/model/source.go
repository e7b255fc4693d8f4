package model

import (
	"fmt"
	"strings"
)

// InputSource identifies what is plugged into a console channel.
// The zero value is SourceNone and never names a real source.
type InputSource int

const (
	SourceNone InputSource = iota

	// Vocals
	SourceLeadVocal
	SourceBackingVocal
	SourceChoir

	// Speech
	SourceHandheldSpeech
	SourceHeadsetSpeech
	SourcePodiumSpeech

	// Drum kit
	SourceKick
	SourceSnare
	SourceHiHat
	SourceRackTom
	SourceFloorTom
	SourceOverheadLeft
	SourceOverheadRight

	// Instruments
	SourceBassDI
	SourceElectricGuitar
	SourceAcousticGuitar
	SourceKeys
	SourcePiano
	SourceSynthPad

	// Line sources
	SourceTracks
	SourceClick
	SourceMedia

	// NumInputSources is the size of any table indexed by InputSource.
	NumInputSources
)

// SourceCategory groups input sources by how they are treated on a channel strip.
type SourceCategory string

const (
	CategoryVocal      SourceCategory = "vocal"
	CategorySpeech     SourceCategory = "speech"
	CategoryDrums      SourceCategory = "drums"
	CategoryInstrument SourceCategory = "instrument"
	CategoryKeys       SourceCategory = "keys"
	CategoryPlayback   SourceCategory = "playback"
)

type sourceInfo struct {
	name      string
	display   string
	category  SourceCategory
	lineLevel bool
}

var sourceTable = [...]sourceInfo{
	SourceNone: {name: "none", display: "Unassigned"},

	SourceLeadVocal:    {"lead_vocal", "Lead Vocal", CategoryVocal, false},
	SourceBackingVocal: {"backing_vocal", "Backing Vocal", CategoryVocal, false},
	SourceChoir:        {"choir", "Choir Mic", CategoryVocal, false},

	SourceHandheldSpeech: {"handheld_speech", "Handheld Speech Mic", CategorySpeech, false},
	SourceHeadsetSpeech:  {"headset_speech", "Headset Speech Mic", CategorySpeech, false},
	SourcePodiumSpeech:   {"podium_speech", "Podium Mic", CategorySpeech, false},

	SourceKick:          {"kick", "Kick Drum", CategoryDrums, false},
	SourceSnare:         {"snare", "Snare Drum", CategoryDrums, false},
	SourceHiHat:         {"hi_hat", "Hi-Hat", CategoryDrums, false},
	SourceRackTom:       {"rack_tom", "Rack Tom", CategoryDrums, false},
	SourceFloorTom:      {"floor_tom", "Floor Tom", CategoryDrums, false},
	SourceOverheadLeft:  {"overhead_left", "Overhead L", CategoryDrums, false},
	SourceOverheadRight: {"overhead_right", "Overhead R", CategoryDrums, false},

	SourceBassDI:         {"bass_di", "Bass DI", CategoryInstrument, false},
	SourceElectricGuitar: {"electric_guitar", "Electric Guitar Amp", CategoryInstrument, false},
	SourceAcousticGuitar: {"acoustic_guitar", "Acoustic Guitar DI", CategoryInstrument, false},
	SourceKeys:           {"keys", "Keys", CategoryKeys, true},
	SourcePiano:          {"piano", "Piano", CategoryKeys, true},
	SourceSynthPad:       {"synth_pad", "Pad / Synth", CategoryKeys, true},

	SourceTracks: {"tracks", "Playback Tracks", CategoryPlayback, true},
	SourceClick:  {"click", "Click Track", CategoryPlayback, true},
	SourceMedia:  {"media", "Video / Media", CategoryPlayback, true},
}

// Adding a source without a sourceTable row fails to compile.
var _ = [1]struct{}{}[len(sourceTable)-int(NumInputSources)]

var sourceByName = func() map[string]InputSource {
	m := make(map[string]InputSource, NumInputSources)
	for s := SourceNone + 1; s < NumInputSources; s++ {
		m[sourceTable[s].name] = s
	}
	return m
}()

// AllInputSources lists every real source in declaration order.
func AllInputSources() []InputSource {
	out := make([]InputSource, 0, NumInputSources-1)
	for s := SourceNone + 1; s < NumInputSources; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s names a real source.
func (s InputSource) Valid() bool {
	return s > SourceNone && s < NumInputSources
}

func (s InputSource) String() string {
	if s < SourceNone || s >= NumInputSources {
		return fmt.Sprintf("InputSource(%d)", int(s))
	}
	return sourceTable[s].name
}

// DisplayName is the label shown to operators.
func (s InputSource) DisplayName() string {
	if !s.Valid() {
		return sourceTable[SourceNone].display
	}
	return sourceTable[s].display
}

func (s InputSource) Category() SourceCategory {
	if !s.Valid() {
		return ""
	}
	return sourceTable[s].category
}

// IsLineLevel reports whether the source arrives at line level rather than mic level.
func (s InputSource) IsLineLevel() bool {
	return s.Valid() && sourceTable[s].lineLevel
}

// NeedsVocalProfile reports whether recommendations for s depend on a VocalProfile.
func (s InputSource) NeedsVocalProfile() bool {
	c := s.Category()
	return c == CategoryVocal || c == CategorySpeech
}

// ParseInputSource resolves the wire name of a source.
func ParseInputSource(name string) (InputSource, error) {
	s, ok := sourceByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return SourceNone, fmt.Errorf("unknown input source %q", name)
	}
	return s, nil
}

func (s InputSource) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid input source %d", int(s))
	}
	return []byte(sourceTable[s].name), nil
}

func (s *InputSource) UnmarshalText(text []byte) error {
	parsed, err := ParseInputSource(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
