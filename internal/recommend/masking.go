package recommend

import (
	"fmt"
	"math"

	"github.com/sanctuarysound/api/internal/model"
)

// span is a closed frequency interval in Hz. A boost band is a zero-width span.
type span struct{ lo, hi float64 }

// emphasis lists where a channel adds energy: its EQ boosts when it has
// any, otherwise the source's nominal range.
func emphasis(rec model.ChannelRecommendation) []span {
	var out []span
	for _, b := range rec.EQ {
		if b.IsBoost() {
			out = append(out, span{b.FrequencyHz, b.FrequencyHz})
		}
	}
	if len(out) > 0 {
		return out
	}
	if n := profileFor(rec.Channel.Source).nominal; n[1] > 0 {
		return []span{{n[0], n[1]}}
	}
	return nil
}

// separation is the distance in semitones from target to the nearest
// emphasized frequency, or +Inf when nothing is emphasized.
func separation(spans []span, target float64) float64 {
	best := math.Inf(1)
	for _, s := range spans {
		var d float64
		switch {
		case target < s.lo:
			d = 12 * math.Log2(s.lo/target)
		case target > s.hi:
			d = 12 * math.Log2(target/s.hi)
		}
		best = math.Min(best, d)
	}
	return best
}

type maskTarget struct {
	band model.MaskingBand
	hz   float64
}

func targets(k model.MusicalKey) []maskTarget {
	return []maskTarget{
		{model.MaskingBass, k.BassRangeHz()},
		{model.MaskingMud, k.MudRangeHz()},
	}
}

// attachKeyWarnings fills KeyWarnings on every channel. Emphasis is computed
// once up front; each channel's warnings are then derived from that
// read-only view, songs outer and bands inner.
func (t Tuning) attachKeyWarnings(svc model.Service, recs []model.ChannelRecommendation) {
	if len(svc.Setlist) == 0 || len(recs) < 2 {
		return
	}
	emph := make([][]span, len(recs))
	for i := range recs {
		emph[i] = emphasis(recs[i])
	}
	for i := range recs {
		recs[i].KeyWarnings = t.keyWarnings(i, emph, svc.Setlist)
	}
}

func (t Tuning) keyWarnings(self int, emph [][]span, songs []model.SetlistSong) []model.KeyWarning {
	if len(emph[self]) == 0 {
		return nil
	}
	w := t.MaskingHalfWidthSemitones
	var out []model.KeyWarning
	for _, song := range songs {
		if !song.Key.Valid() {
			continue
		}
		for _, tg := range targets(song.Key) {
			d := separation(emph[self], tg.hz)
			if d > w {
				continue
			}
			if !sharedByOther(self, emph, tg.hz, w) {
				continue
			}
			sev := t.severity(d, song.Intensity)
			out = append(out, model.KeyWarning{
				SongTitle:   song.Title,
				Key:         song.Key,
				FrequencyHz: math.Round(tg.hz*10) / 10,
				Band:        tg.band,
				Severity:    sev,
				Suggestion:  suggestion(sev, tg, song),
			})
		}
	}
	return out
}

func sharedByOther(self int, emph [][]span, hz, w float64) bool {
	for j, e := range emph {
		if j != self && separation(e, hz) <= w {
			return true
		}
	}
	return false
}

// severity grows as the separation shrinks and as the song gets louder.
func (t Tuning) severity(semitones float64, intensity model.Intensity) model.Severity {
	score := 1 - semitones/t.MaskingHalfWidthSemitones + t.IntensityWeight[intensity]
	switch {
	case score >= t.HighSeverityScore:
		return model.SeverityHigh
	case score >= t.ModerateSeverityScore:
		return model.SeverityModerate
	default:
		return model.SeverityLow
	}
}

func suggestion(sev model.Severity, tg maskTarget, song model.SetlistSong) string {
	switch sev {
	case model.SeverityHigh:
		return fmt.Sprintf("Cut 2-3 dB around %.0f Hz here or on the competing channel during %q.", tg.hz, song.Title)
	case model.SeverityModerate:
		return fmt.Sprintf("Narrow the Q of any boost near %.0f Hz so it does not sit on the %s root.", tg.hz, song.Key)
	default:
		return fmt.Sprintf("Stagger fader moves with the other %s-range channels during %q.", tg.band, song.Title)
	}
}
