package recommend

import (
	"fmt"

	"github.com/sanctuarysound/api/internal/model"
)

func (t Tuning) serviceNotes(svc model.Service, console model.ConsoleProfile, active int) []string {
	var notes []string
	room := svc.Room

	if active == 0 {
		notes = append(notes, "No active channels; nothing to recommend.")
	}

	if svc.Drums == model.DrumsAcoustic && room.Size == model.RoomSmall {
		if room.Surface == model.SurfaceAbsorbent {
			notes = append(notes, "A full acoustic kit will dominate a small absorbent room; a drum shield or electronic kit is recommended to reduce stage volume.")
		} else {
			notes = append(notes, "A full acoustic kit in a small room sets the floor for the whole mix; consider a shield, hot rods or an electronic kit.")
		}
	}
	if svc.Band == model.BandFull && room.Size == model.RoomSmall {
		notes = append(notes, "A full band in a small room leaves little headroom; keep stage amps low and lean on the PA.")
	}
	if capacity, ok := t.RoomChannelCapacity[room.Size]; ok && active > capacity {
		notes = append(notes, fmt.Sprintf(
			"%d active channels is a lot for a %s room (typical %d or fewer); consider combining sources.", active, room.Size, capacity))
	}

	rt60 := room.EstimatedRT60()
	if limit, ok := t.RT60Threshold[room.Size]; ok && rt60 > limit {
		notes = append(notes, fmt.Sprintf(
			"Estimated reverb time %.1f s exceeds %.1f s for a %s room; keep vocals dry and favor tighter filtering.", rt60, limit, room.Size))
	}

	if room.HasLowEndProblem() && svc.Detail.AtLeast(model.DetailDetailed) {
		notes = append(notes, fmt.Sprintf(
			"Room has a low-end problem; high-pass filters raised up to %.0f Hz where the set list allows.", t.LowEndHPFRaiseHz))
	}

	if !svc.Detail.AtLeast(model.DetailDetailed) && active > 0 {
		notes = append(notes, "Essentials only: high-pass filters, EQ, compressor settings and key warnings are omitted; request detailed or full for the rest.")
	}
	if svc.Detail.AtLeast(model.DetailFull) && !console.HasCompressor && active > 0 {
		notes = append(notes, fmt.Sprintf(
			"%s has no channel compressors; compressor suggestions omitted, so full detail matches detailed.", console.DisplayName))
	}
	return notes
}
