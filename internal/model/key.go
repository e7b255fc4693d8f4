package model

import (
	"fmt"
	"math"
	"strings"
)

// MusicalKey is one of the 12 major or 12 minor keys.
type MusicalKey int

const (
	KeyC MusicalKey = iota
	KeyDb
	KeyD
	KeyEb
	KeyE
	KeyF
	KeyGb
	KeyG
	KeyAb
	KeyA
	KeyBb
	KeyB
	KeyCm
	KeyDbm
	KeyDm
	KeyEbm
	KeyEm
	KeyFm
	KeyGbm
	KeyGm
	KeyAbm
	KeyAm
	KeyBbm
	KeyBm

	numKeys
)

var tonicNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var enharmonics = map[string]string{
	"C#": "Db", "D#": "Eb", "F#": "Gb", "G#": "Ab", "A#": "Bb",
	"CB": "B", "FB": "E", "E#": "F", "B#": "C",
}

// fundamentals holds each key's tonic in octave 3, A4 = 440 Hz equal temperament.
var fundamentals = func() [numKeys]float64 {
	var out [numKeys]float64
	for k := MusicalKey(0); k < numKeys; k++ {
		midi := 48 + k.Tonic() // C3
		out[k] = 440 * math.Pow(2, float64(midi-69)/12)
	}
	return out
}()

// Tonic returns the pitch class of the key, C = 0.
func (k MusicalKey) Tonic() int {
	return int(k) % 12
}

// IsMinor reports whether k is a minor key.
func (k MusicalKey) IsMinor() bool {
	return k >= KeyCm && k < numKeys
}

func (k MusicalKey) Valid() bool {
	return k >= 0 && k < numKeys
}

func (k MusicalKey) String() string {
	if !k.Valid() {
		return fmt.Sprintf("MusicalKey(%d)", int(k))
	}
	name := tonicNames[k.Tonic()]
	if k.IsMinor() {
		return name + "m"
	}
	return name
}

// FundamentalHz is the tonic in octave 3 (C3 ≈ 130.8 Hz to B3 ≈ 246.9 Hz).
func (k MusicalKey) FundamentalHz() float64 {
	if !k.Valid() {
		return 0
	}
	return fundamentals[k]
}

// BassRangeHz is the tonic one octave below the fundamental, where bass
// guitar, kick and left-hand keys carry the song's root.
func (k MusicalKey) BassRangeHz() float64 {
	return k.FundamentalHz() / 2
}

// MudRangeHz is the tonic one octave above the fundamental, inside the
// low-mid region where guitars, keys and vocal chest tone pile up.
func (k MusicalKey) MudRangeHz() float64 {
	return k.FundamentalHz() * 2
}

// ParseMusicalKey accepts names such as "G", "F#", "Bbm", "c# minor" or "Eb major".
func ParseMusicalKey(name string) (MusicalKey, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	minor := false
	switch {
	case strings.HasSuffix(s, " MINOR"):
		s, minor = strings.TrimSuffix(s, " MINOR"), true
	case strings.HasSuffix(s, " MAJOR"):
		s = strings.TrimSuffix(s, " MAJOR")
	case strings.HasSuffix(s, "MIN"):
		s, minor = strings.TrimSuffix(s, "MIN"), true
	case strings.HasSuffix(s, "M") && len(s) > 1:
		s, minor = strings.TrimSuffix(s, "M"), true
	}
	s = strings.TrimSpace(s)
	if alt, ok := enharmonics[s]; ok {
		s = alt
	}
	for i, t := range tonicNames {
		if strings.ToUpper(t) == s {
			k := MusicalKey(i)
			if minor {
				k += KeyCm
			}
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown musical key %q", name)
}

func (k MusicalKey) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid musical key %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *MusicalKey) UnmarshalText(text []byte) error {
	parsed, err := ParseMusicalKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
