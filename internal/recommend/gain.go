package recommend

import (
	"math"

	"github.com/sanctuarysound/api/internal/model"
)

// gainWindow applies mic type, loud-style tightening and the console's
// preamp limits to the source's baseline window.
func (t Tuning) gainWindow(prof sourceProfile, vp model.VocalProfile, hasVocal bool, console model.ConsoleProfile) model.GainRange {
	g := prof.gain
	if hasVocal {
		shift := t.MicGainShiftDB[vp.Mic]
		g.LowDB += shift
		g.HighDB += shift
		if f, ok := t.LoudCeilingFraction[vp.Style]; ok {
			g.HighDB = g.LowDB + (g.HighDB-g.LowDB)*f
		}
	}

	// Clamping both ends into the console range keeps low <= high.
	consoleRange := model.GainRange{LowDB: console.GainMinDB, HighDB: console.GainMaxDB}
	g.LowDB = consoleRange.Clamp(roundTo(g.LowDB, t.GainRoundingStepDB))
	g.HighDB = consoleRange.Clamp(roundTo(g.HighDB, t.GainRoundingStepDB))
	return g
}

// faderStart is expressed on the same dB scale as the gain window and always
// lands inside it.
func (t Tuning) faderStart(prof sourceProfile, g model.GainRange, room model.Room) float64 {
	v := g.Mid() + prof.faderOffsetDB + t.FaderNudgeDB[room.Surface]
	return g.Clamp(roundTo(v, t.GainRoundingStepDB))
}

func roundTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
