package recommend

import (
	"math"
	"sort"

	"github.com/sanctuarysound/api/internal/model"
)

// hpf returns the recommended cutoff, or false when the source should run
// without a high-pass filter.
func (t Tuning) hpf(prof sourceProfile, ch model.InputChannel, vp model.VocalProfile, svc model.Service) (float64, bool) {
	base := prof.hpfHz
	switch ch.Source {
	case model.SourceLeadVocal:
		base = t.VocalHPFHz[vp.Range]
	case model.SourceBackingVocal:
		base = t.VocalHPFHz[vp.Range] + t.BackingVocalHPFDelta
	}
	if base <= 0 {
		return 0, false
	}
	if !svc.Room.HasLowEndProblem() {
		return math.Round(base), true
	}

	raised := base + t.LowEndHPFRaiseHz
	if prof.carriesLowEnd {
		if ceiling, ok := lowestBassHz(svc.Setlist); ok {
			raised = math.Max(base, math.Min(raised, ceiling))
		}
	}
	return math.Round(raised), true
}

// lowestBassHz is the lowest bass-range frequency across the set list.
func lowestBassHz(songs []model.SetlistSong) (float64, bool) {
	lowest := math.Inf(1)
	for _, s := range songs {
		if hz := s.Key.BassRangeHz(); hz > 0 && hz < lowest {
			lowest = hz
		}
	}
	return lowest, !math.IsInf(lowest, 1)
}

// eq expands the source's templates, keeps as many as the console has bands
// for (in priority order) and returns them sorted low to high.
func (t Tuning) eq(prof sourceProfile, room model.Room, console model.ConsoleProfile) ([]model.EQBand, int) {
	if len(prof.eq) == 0 {
		return nil, 0
	}
	templates := make([]eqTemplate, len(prof.eq))
	copy(templates, prof.eq)
	sort.SliceStable(templates, func(i, j int) bool { return templates[i].role < templates[j].role })

	limit := len(templates)
	if console.EQBands >= 0 && console.EQBands < limit {
		limit = console.EQBands
	}
	dropped := len(templates) - limit

	bands := make([]model.EQBand, 0, limit)
	for _, tpl := range templates[:limit] {
		b := model.EQBand{FrequencyHz: tpl.hz, Q: tpl.q, GainDB: tpl.gainDB, Reason: tpl.reason}
		if tpl.role == roleMudCut {
			b.Q = t.MudCutQ
			b.GainDB = t.mudCutDB(room.Surface)
			if room.Surface == model.SurfaceReflective {
				b.Reason += " (deeper cut for a reflective room)"
			}
		}
		bands = append(bands, b)
	}
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].FrequencyHz < bands[j].FrequencyHz })
	if len(bands) == 0 {
		return nil, dropped
	}
	return bands, dropped
}

func (t Tuning) mudCutDB(s model.RoomSurface) float64 {
	if db, ok := t.MudCutDB[s]; ok {
		return db
	}
	return t.MudCutDB[model.SurfaceMixed]
}
