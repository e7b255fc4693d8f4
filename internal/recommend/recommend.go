// Package recommend turns a service description into per-channel starting
// settings for a live mixing console.
//
// Generation is a pure function of its inputs: no I/O, no clock, no
// randomness, and no state shared between calls.
package recommend

import (
	"fmt"

	"github.com/sanctuarysound/api/internal/model"
)

// Generate runs the engine with DefaultTuning.
func Generate(svc model.Service) model.MixerSettingRecommendation {
	return DefaultTuning().Generate(svc)
}

// Generate produces one ChannelRecommendation per active channel, in input
// order, plus service-level notes.
func (t Tuning) Generate(svc model.Service) model.MixerSettingRecommendation {
	console := svc.Console.Profile()
	active := svc.ActiveChannels()

	out := model.MixerSettingRecommendation{
		Service:  svc,
		Channels: make([]model.ChannelRecommendation, 0, len(active)),
	}
	for _, ch := range active {
		out.Channels = append(out.Channels, t.channel(svc, console, ch))
	}

	if svc.Detail.AtLeast(model.DetailDetailed) {
		t.attachKeyWarnings(svc, out.Channels)
	}

	out.Notes = t.serviceNotes(svc, console, len(active))
	return out
}

func (t Tuning) channel(svc model.Service, console model.ConsoleProfile, ch model.InputChannel) model.ChannelRecommendation {
	prof := profileFor(ch.Source)
	vp, hasVocal := ch.EffectiveVocalProfile()

	rec := model.ChannelRecommendation{Channel: ch}

	rec.GainRange = t.gainWindow(prof, vp, hasVocal, console)
	rec.FaderStartDB = t.faderStart(prof, rec.GainRange, svc.Room)
	rec.HeadroomDB = roundTo(console.GainMaxDB-rec.GainRange.HighDB, t.GainRoundingStepDB)

	if hasVocal {
		if ch.VocalProfile == nil {
			rec.Notes = append(rec.Notes, fmt.Sprintf(
				"No vocal profile given; assumed %s, %s delivery on a %s mic.", vp.Range, vp.Style, vp.Mic))
		}
		if vp.Style.IsLoud() {
			rec.Notes = append(rec.Notes, fmt.Sprintf(
				"Gain ceiling lowered to leave headroom for a %s singer.", vp.Style))
		}
		if vp.Mic == model.MicCondenser || vp.Mic == model.MicHeadset || vp.Mic == model.MicLavalier {
			rec.Notes = append(rec.Notes, "Enable +48V phantom power for this mic.")
		}
	}

	if !svc.Detail.AtLeast(model.DetailDetailed) {
		return rec
	}

	if hz, ok := t.hpf(prof, ch, vp, svc); ok {
		rec.HPFHz = &hz
	}

	eq, dropped := t.eq(prof, svc.Room, console)
	rec.EQ = eq
	if dropped > 0 {
		rec.Notes = append(rec.Notes, fmt.Sprintf(
			"%s has %d EQ bands; dropped %d lower-priority suggestion(s).", console.DisplayName, console.EQBands, dropped))
	}

	if svc.Detail.AtLeast(model.DetailFull) && console.HasCompressor && prof.comp != nil {
		rec.Compressor = t.compressor(prof, vp, hasVocal)
	}
	return rec
}
