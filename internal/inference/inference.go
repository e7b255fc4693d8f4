// Package inference guesses the input source behind a free-text channel
// label, such as the scribble-strip names found in console snapshots.
package inference

import (
	"strings"
	"unicode"

	"github.com/sanctuarysound/api/internal/model"
)

// Label is a lower-cased channel label split into alphanumeric tokens.
type Label struct {
	Text   string
	Tokens []string
}

// NewLabel normalises raw for matching.
func NewLabel(raw string) Label {
	text := strings.ToLower(strings.TrimSpace(raw))
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return Label{Text: text, Tokens: tokens}
}

// Predicate tests a normalised label.
type Predicate func(Label) bool

// Rule maps labels matching Match to Source.
type Rule struct {
	Name   string
	Match  Predicate
	Source model.InputSource
}

// Contains matches when any of subs occurs anywhere in the label.
func Contains(subs ...string) Predicate {
	return func(l Label) bool {
		for _, s := range subs {
			if strings.Contains(l.Text, s) {
				return true
			}
		}
		return false
	}
}

// Token matches when any of toks is a whole token of the label. Used for
// short abbreviations that would otherwise match inside longer words.
func Token(toks ...string) Predicate {
	return func(l Label) bool {
		for _, t := range l.Tokens {
			for _, want := range toks {
				if t == want {
					return true
				}
			}
		}
		return false
	}
}

// TokenPrefix matches a token followed only by digits, so "bv2" matches "bv".
func TokenPrefix(prefixes ...string) Predicate {
	return func(l Label) bool {
		for _, t := range l.Tokens {
			for _, p := range prefixes {
				if strings.HasPrefix(t, p) && isDigits(t[len(p):]) {
					return true
				}
			}
		}
		return false
	}
}

func All(ps ...Predicate) Predicate {
	return func(l Label) bool {
		for _, p := range ps {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

func Any(ps ...Predicate) Predicate {
	return func(l Label) bool {
		for _, p := range ps {
			if p(l) {
				return true
			}
		}
		return false
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var (
	overhead  = Any(Contains("overhead"), TokenPrefix("oh", "ohl", "ohr"))
	rightSide = Any(Contains("right"), Token("r"), TokenPrefix("ohr"))
	speech    = Contains("pastor", "speak", "preach", "sermon", "announce", "host", "emcee")
	tom       = Any(TokenPrefix("tom", "toms", "rtom", "racktom"), Contains("floortom"))
)

// rules is evaluated top to bottom; the first match wins. Line sources and
// speech come first because their labels often contain drum or vocal words
// ("playback", "pastor vox"). Keyboards precede guitars so "acoustic piano"
// and "elec piano" stay keyboards.
var rules = []Rule{
	{"click", Contains("click", "metronome"), model.SourceClick},
	{"tracks", Any(Contains("track", "playback", "stems", "multitrack"), Token("trx", "mtr")), model.SourceTracks},
	{"media", Any(Contains("video", "media", "ipad", "laptop", "computer", "walk in", "walkin"), Token("pc", "mac", "yt")), model.SourceMedia},
	{"podium", Contains("podium", "pulpit", "lectern", "gooseneck"), model.SourcePodiumSpeech},
	{"headset speech", All(speech, Contains("headset", "lav", "countryman")), model.SourceHeadsetSpeech},
	{"handheld speech", Any(speech, Token("mc")), model.SourceHandheldSpeech},
	{"kick", Any(Contains("kick", "bass drum", "stomp"), Token("bd", "kik", "kck")), model.SourceKick},
	{"snare", Any(Contains("snare"), Token("sn", "snr", "sd")), model.SourceSnare},
	{"hi-hat", Any(Contains("hat"), Token("hh", "hihat")), model.SourceHiHat},
	{"floor tom", Any(All(tom, Contains("floor")), Token("ft", "ftom")), model.SourceFloorTom},
	{"rack tom", Any(tom, Token("rt")), model.SourceRackTom},
	{"overhead right", All(overhead, rightSide), model.SourceOverheadRight},
	{"overhead left", overhead, model.SourceOverheadLeft},
	{"choir", Contains("choir", "chorus"), model.SourceChoir},
	{"lead vocal", Any(All(Contains("lead"), Contains("voc", "vox")), Contains("worship leader"), Token("lv", "wl")), model.SourceLeadVocal},
	{"backing vocal", Any(Contains("back", "harmony", "bgv"), TokenPrefix("bv")), model.SourceBackingVocal},
	{"vocal", Contains("voc", "vox", "sing"), model.SourceLeadVocal},
	{"bass", Contains("bass"), model.SourceBassDI},
	{"piano", Contains("piano", "pno", "grand"), model.SourcePiano},
	{"pad", Contains("pad", "synth"), model.SourceSynthPad},
	{"keys", Any(Contains("keys", "keyboard", "organ", "rhodes", "nord"), Token("kb", "kbd", "key")), model.SourceKeys},
	{"acoustic guitar", Any(Contains("acoustic", "acous"), Token("ag", "agtr")), model.SourceAcousticGuitar},
	{"electric guitar", Any(Contains("guitar", "gtr", "elec"), Token("eg", "egtr")), model.SourceElectricGuitar},
	{"headset", Contains("headset"), model.SourceHeadsetSpeech},
	{"handheld", Contains("handheld", "wireless"), model.SourceHandheldSpeech},
}

// Rules returns the rule table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Infer returns the source for label, or false when no rule matches.
func Infer(label string) (model.InputSource, bool) {
	l := NewLabel(label)
	if l.Text == "" {
		return model.SourceNone, false
	}
	for _, r := range rules {
		if r.Match(l) {
			return r.Source, true
		}
	}
	return model.SourceNone, false
}

// InferAll runs Infer over labels, preserving order.
func InferAll(labels []string) []model.InferredLabel {
	out := make([]model.InferredLabel, 0, len(labels))
	for _, label := range labels {
		res := model.InferredLabel{Label: label}
		if src, ok := Infer(label); ok {
			s := src
			res.Source = &s
			res.Mapped = true
		}
		out = append(out, res)
	}
	return out
}
