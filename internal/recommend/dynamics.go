package recommend

import (
	"fmt"
	"math"

	"github.com/sanctuarysound/api/internal/model"
)

func (t Tuning) compressor(prof sourceProfile, vp model.VocalProfile, hasVocal bool) *model.CompressorSetting {
	b := prof.comp
	c := &model.CompressorSetting{
		ThresholdDB: b.thresholdDB,
		Ratio:       b.ratio,
		AttackMs:    b.attackMs,
		ReleaseMs:   b.releaseMs,
		Reason:      b.reason,
	}

	if hasVocal {
		if adj, ok := t.StyleAdjust[vp.Style]; ok {
			c.Ratio = math.Max(t.MinRatio, c.Ratio+adj.RatioDelta)
			c.ThresholdDB += adj.ThresholdDeltaDB
			if adj.AttackScale > 0 {
				c.AttackMs = math.Max(t.MinAttackMs, c.AttackMs*adj.AttackScale)
			}
			if adj.ReleaseScale > 0 {
				c.ReleaseMs *= adj.ReleaseScale
			}
			if vp.Style != model.StyleModerate {
				c.Reason = fmt.Sprintf("%s; tuned for %s delivery", c.Reason, vp.Style)
			}
		}
	}

	c.AttackMs = math.Round(c.AttackMs*10) / 10
	c.ReleaseMs = math.Round(c.ReleaseMs)
	c.MakeupGainDB = t.makeupGain(c.ThresholdDB, c.Ratio)
	return c
}

// makeupGain estimates the average gain reduction for program peaking at
// PeakReferenceDBFS, taking the typical overshoot as half the distance
// between threshold and peak.
func (t Tuning) makeupGain(thresholdDB, ratio float64) float64 {
	over := (t.PeakReferenceDBFS - thresholdDB) / 2
	if over <= 0 || ratio <= 1 {
		return 0
	}
	return roundTo(over*(1-1/ratio), 0.5)
}
