package recommend

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuarysound/api/internal/model"
)

func vocal(label string, src model.InputSource, vp *model.VocalProfile) model.InputChannel {
	return model.InputChannel{Label: label, Source: src, VocalProfile: vp, Active: true}
}

func line(label string, src model.InputSource) model.InputChannel {
	return model.InputChannel{Label: label, Source: src, Active: true}
}

func sundayService(detail model.DetailLevel) model.Service {
	return model.Service{
		ID:      "svc-1",
		Console: model.ConsoleBehringerX32,
		Room:    model.Room{Size: model.RoomMedium, Surface: model.SurfaceMixed},
		Band:    model.BandSmall,
		Drums:   model.DrumsAcoustic,
		Channels: []model.InputChannel{
			vocal("Lead", model.SourceLeadVocal, &model.VocalProfile{Range: model.RangeTenor, Style: model.StyleModerate, Mic: model.MicDynamic}),
			line("Kick", model.SourceKick),
			line("Bass", model.SourceBassDI),
			{Label: "Spare", Source: model.SourceKeys, Active: false},
			line("Keys", model.SourceKeys),
		},
		Setlist: []model.SetlistSong{
			{Title: "Opener", Key: model.KeyC, Intensity: model.IntensityDriving},
			{Title: "Slow One", Key: model.KeyG, Intensity: model.IntensitySoft},
		},
		Detail: detail,
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	svc := sundayService(model.DetailFull)

	first := Generate(svc)
	second := Generate(svc)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("generate not deterministic (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerate_Completeness(t *testing.T) {
	svc := sundayService(model.DetailDetailed)
	rec := Generate(svc)

	active := svc.ActiveChannels()
	require.Len(t, rec.Channels, len(active))
	for i, ch := range rec.Channels {
		assert.Equal(t, active[i].Label, ch.Channel.Label)
	}
}

func TestGenerate_DoesNotMutateService(t *testing.T) {
	svc := sundayService(model.DetailFull)
	before := sundayService(model.DetailFull)
	Generate(svc)
	if diff := cmp.Diff(before, svc); diff != "" {
		t.Fatalf("service mutated:\n%s", diff)
	}
}

func TestGenerate_DetailMonotonicity(t *testing.T) {
	essentials := Generate(sundayService(model.DetailEssentials))
	detailed := Generate(sundayService(model.DetailDetailed))
	full := Generate(sundayService(model.DetailFull))

	for _, ch := range essentials.Channels {
		assert.Nil(t, ch.HPFHz, ch.Channel.Label)
		assert.Empty(t, ch.EQ, ch.Channel.Label)
		assert.Nil(t, ch.Compressor, ch.Channel.Label)
		assert.Empty(t, ch.KeyWarnings, ch.Channel.Label)
	}

	var hpf, eq, warnings int
	for i, ch := range detailed.Channels {
		assert.Nil(t, ch.Compressor, ch.Channel.Label)
		assert.Equal(t, essentials.Channels[i].GainRange, ch.GainRange)
		assert.Equal(t, essentials.Channels[i].FaderStartDB, ch.FaderStartDB)
		if ch.HPFHz != nil {
			hpf++
		}
		if len(ch.EQ) > 0 {
			eq++
		}
		warnings += len(ch.KeyWarnings)
	}
	assert.Positive(t, hpf)
	assert.Positive(t, eq)
	assert.Positive(t, warnings)

	var comps int
	for i, ch := range full.Channels {
		d := detailed.Channels[i]
		assert.Equal(t, d.HPFHz, ch.HPFHz)
		assert.Equal(t, d.EQ, ch.EQ)
		assert.Equal(t, d.KeyWarnings, ch.KeyWarnings)
		if ch.Compressor != nil {
			comps++
		}
	}
	assert.Positive(t, comps)
}

func TestGenerate_GainContainment(t *testing.T) {
	surfaces := model.ValidRoomSurfaces
	styles := []model.VocalStyle{model.StyleSoft, model.StyleModerate, model.StylePowerful, model.StyleAggressive}
	mics := []model.MicType{model.MicDynamic, model.MicCondenser, model.MicHeadset, model.MicLavalier}

	for _, profile := range model.ConsoleProfiles() {
		for _, surface := range surfaces {
			var channels []model.InputChannel
			for _, src := range model.AllInputSources() {
				if src.NeedsVocalProfile() {
					for _, st := range styles {
						for _, m := range mics {
							channels = append(channels, vocal(src.String(), src, &model.VocalProfile{Style: st, Mic: m}))
						}
					}
					continue
				}
				channels = append(channels, line(src.String(), src))
			}
			svc := model.Service{
				Console:  profile.Model,
				Room:     model.Room{Size: model.RoomLarge, Surface: surface},
				Channels: channels,
				Detail:   model.DetailFull,
			}
			for _, ch := range Generate(svc).Channels {
				g := ch.GainRange
				assert.LessOrEqual(t, g.LowDB, g.HighDB, "%s %s", profile.Model, ch.Channel.Label)
				assert.GreaterOrEqual(t, g.LowDB, profile.GainMinDB, "%s %s", profile.Model, ch.Channel.Label)
				assert.LessOrEqual(t, g.HighDB, profile.GainMaxDB, "%s %s", profile.Model, ch.Channel.Label)
				assert.True(t, g.Contains(ch.FaderStartDB), "%s %s fader %.1f outside %+v", profile.Model, ch.Channel.Label, ch.FaderStartDB, g)
				assert.Equal(t, profile.GainMaxDB-g.HighDB, ch.HeadroomDB)
				assert.LessOrEqual(t, len(ch.EQ), profile.EQBands)
			}
		}
	}
}

func TestGenerate_KeyConflictTriggering(t *testing.T) {
	svc := model.Service{
		Console: model.ConsoleGeneric,
		Room:    model.Room{Size: model.RoomMedium, Surface: model.SurfaceMixed},
		Channels: []model.InputChannel{
			line("Kick", model.SourceKick),
			line("Bass", model.SourceBassDI),
		},
		Setlist: []model.SetlistSong{{Title: "Low Song", Key: model.KeyC, Intensity: model.IntensityMedium}},
		Detail:  model.DetailDetailed,
	}
	rec := Generate(svc)

	for _, ch := range rec.Channels {
		require.NotEmpty(t, ch.KeyWarnings, ch.Channel.Label)
		w := ch.KeyWarnings[0]
		assert.Equal(t, "Low Song", w.SongTitle)
		assert.Equal(t, model.MaskingBass, w.Band)
		assert.InDelta(t, model.KeyC.BassRangeHz(), w.FrequencyHz, 0.1)
		assert.NotEmpty(t, w.Suggestion)
	}
}

func TestGenerate_KeyConflictNeedsAnotherChannel(t *testing.T) {
	svc := model.Service{
		Console:  model.ConsoleGeneric,
		Channels: []model.InputChannel{line("Kick", model.SourceKick), line("Click", model.SourceClick)},
		Setlist:  []model.SetlistSong{{Title: "Low Song", Key: model.KeyC}},
		Detail:   model.DetailDetailed,
	}
	for _, ch := range Generate(svc).Channels {
		assert.Empty(t, ch.KeyWarnings, ch.Channel.Label)
	}
}

func TestGenerate_AggressiveLeadScenario(t *testing.T) {
	svc := model.Service{
		Console: model.ConsoleBehringerX32,
		Room:    model.Room{Size: model.RoomMedium, Surface: model.SurfaceMixed},
		Channels: []model.InputChannel{
			vocal("Lead", model.SourceLeadVocal, &model.VocalProfile{Range: model.RangeTenor, Style: model.StyleAggressive, Mic: model.MicDynamic}),
		},
		Setlist: []model.SetlistSong{
			{Title: "One", Key: model.KeyG},
			{Title: "Two", Key: model.KeyG},
			{Title: "Three", Key: model.KeyG},
		},
		Detail: model.DetailFull,
	}
	rec := Generate(svc)
	require.Len(t, rec.Channels, 1)
	ch := rec.Channels[0]
	require.NotNil(t, ch.Compressor)

	moderate := svc
	moderate.Channels = []model.InputChannel{
		vocal("Lead", model.SourceLeadVocal, &model.VocalProfile{Range: model.RangeTenor, Style: model.StyleModerate, Mic: model.MicDynamic}),
	}
	base := Generate(moderate).Channels[0].Compressor
	require.NotNil(t, base)

	assert.Less(t, ch.Compressor.AttackMs, base.AttackMs)
	assert.Greater(t, ch.Compressor.Ratio, base.Ratio)
	assert.Empty(t, ch.KeyWarnings)

	// Loud styles keep the gain ceiling lower.
	assert.Less(t, ch.GainRange.HighDB, Generate(moderate).Channels[0].GainRange.HighDB)
}

func TestGenerate_EmptyInputs(t *testing.T) {
	rec := Generate(model.Service{})
	assert.Empty(t, rec.Channels)
	assert.NotNil(t, rec.Channels)
	assert.Contains(t, rec.Notes, "No active channels; nothing to recommend.")

	svc := model.Service{Channels: []model.InputChannel{line("Kick", model.SourceKick)}, Detail: model.DetailFull}
	rec = Generate(svc)
	require.Len(t, rec.Channels, 1)
	assert.Empty(t, rec.Channels[0].KeyWarnings)
}

func TestGenerate_MissingVocalProfileUsesDefault(t *testing.T) {
	svc := model.Service{
		Console:  model.ConsoleBehringerX32,
		Channels: []model.InputChannel{vocal("Pastor", model.SourceHandheldSpeech, nil)},
		Detail:   model.DetailFull,
	}
	ch := Generate(svc).Channels[0]
	require.NotNil(t, ch.HPFHz)
	require.NotNil(t, ch.Compressor)
	require.NotEmpty(t, ch.Notes)
	assert.Contains(t, ch.Notes[0], "No vocal profile given")
}

func TestGenerate_HPF(t *testing.T) {
	base := model.Service{
		Console: model.ConsoleGeneric,
		Room:    model.Room{Size: model.RoomSmall, Surface: model.SurfaceMixed},
		Channels: []model.InputChannel{
			line("Kick", model.SourceKick),
			line("Bass", model.SourceBassDI),
			line("AG", model.SourceAcousticGuitar),
			line("Keys", model.SourceKeys),
			vocal("Lead", model.SourceLeadVocal, &model.VocalProfile{Range: model.RangeTenor}),
		},
		Setlist: []model.SetlistSong{{Title: "E song", Key: model.KeyE}},
		Detail:  model.DetailDetailed,
	}

	plain := Generate(base).Channels
	assert.Nil(t, plain[0].HPFHz, "kick has no HPF")
	assert.Nil(t, plain[1].HPFHz, "bass has no HPF")
	require.NotNil(t, plain[2].HPFHz)
	assert.Equal(t, 80.0, *plain[2].HPFHz)
	assert.Equal(t, 40.0, *plain[3].HPFHz)
	assert.Equal(t, 100.0, *plain[4].HPFHz)

	boomy := base
	boomy.Room.LowEndBuildup = true
	raised := Generate(boomy).Channels

	// Acoustic guitar would go to 110 Hz but E's bass root sits at ~82 Hz.
	assert.Equal(t, 82.0, *raised[2].HPFHz)
	// Keys rises the full amount; 70 Hz is still under the bass root.
	assert.Equal(t, 70.0, *raised[3].HPFHz)
	// Vocals carry no bass-range program and rise freely.
	assert.Equal(t, 130.0, *raised[4].HPFHz)
	for i := range raised {
		if plain[i].HPFHz != nil {
			assert.GreaterOrEqual(t, *raised[i].HPFHz, *plain[i].HPFHz)
		}
	}
}

func TestGenerate_EQ(t *testing.T) {
	svc := model.Service{
		Console:  model.ConsoleBehringerX32,
		Room:     model.Room{Size: model.RoomMedium, Surface: model.SurfaceReflective},
		Channels: []model.InputChannel{vocal("Lead", model.SourceLeadVocal, nil)},
		Detail:   model.DetailDetailed,
	}
	reflective := Generate(svc).Channels[0].EQ
	svc.Room.Surface = model.SurfaceAbsorbent
	absorbent := Generate(svc).Channels[0].EQ

	require.Len(t, reflective, 2)
	require.Len(t, absorbent, 2)
	assert.Less(t, reflective[0].GainDB, absorbent[0].GainDB, "reflective rooms get the deeper mud cut")
	assert.True(t, reflective[1].IsBoost())
	for _, b := range reflective {
		assert.NotEmpty(t, b.Reason)
	}
}

func TestGenerate_EQTrimmedToConsole(t *testing.T) {
	svc := model.Service{
		Console:  model.ConsoleGeneric,
		Channels: []model.InputChannel{vocal("Pastor", model.SourceHeadsetSpeech, nil)},
		Detail:   model.DetailDetailed,
	}
	ch := Generate(svc).Channels[0]
	assert.Len(t, ch.EQ, 3)

	tuning := DefaultTuning()
	console := model.ConsoleProfile{DisplayName: "Tiny", EQBands: 1, GainMaxDB: 60}
	eq, dropped := tuning.eq(profileFor(model.SourceHeadsetSpeech), model.Room{}, console)
	require.Len(t, eq, 1)
	assert.Equal(t, 2, dropped)
	assert.Less(t, eq[0].GainDB, 0.0, "mud cut has the highest priority")
}

func TestGenerate_ServiceNotes(t *testing.T) {
	svc := model.Service{
		Console:  model.ConsoleGeneric,
		Room:     model.Room{Size: model.RoomSmall, Surface: model.SurfaceAbsorbent},
		Band:     model.BandFull,
		Drums:    model.DrumsAcoustic,
		Channels: []model.InputChannel{line("Kick", model.SourceKick)},
		Detail:   model.DetailFull,
	}
	notes := Generate(svc).Notes
	require.NotEmpty(t, notes)
	assert.Contains(t, notes[0], "small absorbent room")
	assert.Contains(t, notes, "Generic / Analog has no channel compressors; compressor suggestions omitted, so full detail matches detailed.")

	svc = model.Service{Room: model.Room{Size: model.RoomLarge, Surface: model.SurfaceReflective}}
	notes = Generate(svc).Notes
	found := false
	for _, n := range notes {
		if strings.HasPrefix(n, "Estimated reverb time") {
			found = true
		}
	}
	assert.True(t, found, "large reflective room should exceed the RT60 threshold: %v", notes)
}

func TestGenerate_EssentialsNote(t *testing.T) {
	hasEssentialsNote := func(notes []string) bool {
		for _, n := range notes {
			if strings.HasPrefix(n, "Essentials only:") {
				return true
			}
		}
		return false
	}

	rec := Generate(sundayService(model.DetailEssentials))
	assert.True(t, hasEssentialsNote(rec.Notes), "essentials should explain omitted fields: %v", rec.Notes)
	assert.False(t, hasEssentialsNote(Generate(sundayService(model.DetailDetailed)).Notes))
	assert.False(t, hasEssentialsNote(Generate(sundayService(model.DetailFull)).Notes))

	empty := Generate(model.Service{Detail: model.DetailEssentials})
	assert.False(t, hasEssentialsNote(empty.Notes), "no note without active channels")
}

func TestMakeupGain(t *testing.T) {
	tuning := DefaultTuning()
	assert.Equal(t, 4.0, tuning.makeupGain(-18, 3))
	assert.Equal(t, 0.0, tuning.makeupGain(-4, 4), "threshold above the peak reference")
	assert.Equal(t, 0.0, tuning.makeupGain(-20, 1))
}

func TestSeverity(t *testing.T) {
	tuning := DefaultTuning()
	assert.Equal(t, model.SeverityHigh, tuning.severity(0, model.IntensitySoft))
	assert.Equal(t, model.SeverityModerate, tuning.severity(1.5, model.IntensitySoft))
	assert.Equal(t, model.SeverityLow, tuning.severity(3.5, model.IntensitySoft))
	assert.Equal(t, model.SeverityHigh, tuning.severity(1.5, model.IntensityAllOut))
}

func TestProfiles_EverySourceHasGainWindow(t *testing.T) {
	for _, src := range model.AllInputSources() {
		p := profileFor(src)
		assert.Less(t, p.gain.LowDB, p.gain.HighDB, src.String())
	}
}
