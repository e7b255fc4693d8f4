package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/recommend"
)

func ptr(v float64) *float64 { return &v }

func fixture() model.MixerSettingRecommendation {
	return recommend.Generate(model.Service{
		Console: model.ConsoleBehringerX32,
		Room:    model.Room{Size: model.RoomMedium, Surface: model.SurfaceMixed},
		Channels: []model.InputChannel{
			{Label: "Lead", Source: model.SourceLeadVocal, Active: true},
			{Label: "BV", Source: model.SourceBackingVocal, Active: true},
			{Label: "BV", Source: model.SourceBackingVocal, Active: true},
			{Label: "Kick", Source: model.SourceKick, Active: true},
			{Label: "Tracks", Source: model.SourceTracks, Active: true},
		},
		Detail: model.DetailDetailed,
	})
}

func channelFor(rec model.MixerSettingRecommendation, src model.InputSource) model.ChannelRecommendation {
	for _, c := range rec.Channels {
		if c.Channel.Source == src {
			return c
		}
	}
	panic("no recommendation for " + src.String())
}

func TestAnalyze_NullCase(t *testing.T) {
	rec := fixture()
	lead := channelFor(rec, model.SourceLeadVocal)

	for _, gain := range []float64{lead.GainRange.LowDB, lead.GainRange.HighDB} {
		snap := model.MixerSnapshot{
			Console:  model.ConsoleBehringerX32,
			Channels: []model.SnapshotChannel{{Number: 1, Name: "Lead Vox", GainDB: ptr(gain)}},
		}
		res, err := Analyze(snap, rec, nil, model.DefaultSPLPreference())
		require.NoError(t, err)
		require.Len(t, res.Channels, 1)

		d := res.Channels[0]
		assert.Equal(t, model.DeltaWithin, d.Status)
		require.NotNil(t, d.GainDeltaDB)
		assert.Equal(t, 0.0, *d.GainDeltaDB)
		assert.True(t, d.Inferred)
	}
}

func TestAnalyze_Robustness(t *testing.T) {
	rec := fixture()
	snap := model.MixerSnapshot{Channels: []model.SnapshotChannel{
		{Number: 1, Name: "Ch 1", GainDB: ptr(30)},
		{Number: 2, Name: "", GainDB: nil},
		{Number: 3, Name: "???", GainDB: ptr(math.NaN())},
	}}

	res, err := Analyze(snap, rec, nil, model.SPLPreference{})
	require.NoError(t, err)
	assert.Zero(t, res.MappedCount)
	assert.Empty(t, res.Channels)
	assert.Len(t, res.Unmapped, 3)
	assert.Equal(t, model.GradeUnrated, res.Grade)
	assert.False(t, math.IsNaN(res.WithinFraction))
	assert.Zero(t, res.WithinFraction)
	for _, u := range res.Unmapped {
		assert.Equal(t, model.UnmappedNoMatch, u.Reason)
	}
}

func TestAnalyze_EmptySnapshot(t *testing.T) {
	res, err := Analyze(model.MixerSnapshot{}, model.MixerSettingRecommendation{}, nil, model.SPLPreference{})
	require.NoError(t, err)
	assert.Equal(t, model.GradeUnrated, res.Grade)
	assert.NotNil(t, res.Channels)
	assert.NotNil(t, res.Unmapped)
}

func TestAnalyze_ConsoleMismatch(t *testing.T) {
	rec := fixture()
	snap := model.MixerSnapshot{Console: model.ConsoleYamahaTF}

	_, err := Analyze(snap, rec, nil, model.DefaultSPLPreference())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConsoleMismatch))

	// A snapshot without a console model is accepted.
	_, err = Analyze(model.MixerSnapshot{}, rec, nil, model.DefaultSPLPreference())
	assert.NoError(t, err)
}

func TestAnalyze_MappingOverridesInference(t *testing.T) {
	rec := fixture()
	kick := channelFor(rec, model.SourceKick)
	snap := model.MixerSnapshot{Channels: []model.SnapshotChannel{
		{Number: 7, Name: "Lead Vox", GainDB: ptr(kick.GainRange.Mid())},
		{Number: 8, Name: "Kick", GainDB: ptr(20)},
	}}
	mapping := model.ChannelMapping{
		7: model.SourceKick,
		8: model.SourceNone,
	}

	res, err := Analyze(snap, rec, mapping, model.DefaultSPLPreference())
	require.NoError(t, err)
	require.Len(t, res.Channels, 1)
	assert.Equal(t, model.SourceKick, res.Channels[0].Source)
	assert.False(t, res.Channels[0].Inferred)
	require.Len(t, res.Unmapped, 1)
	assert.Equal(t, model.UnmappedInvalidMapping, res.Unmapped[0].Reason)
}

func TestAnalyze_NotInRecommendation(t *testing.T) {
	rec := fixture()
	snap := model.MixerSnapshot{Channels: []model.SnapshotChannel{{Number: 1, Name: "Snare", GainDB: ptr(25)}}}

	res, err := Analyze(snap, rec, nil, model.DefaultSPLPreference())
	require.NoError(t, err)
	require.Len(t, res.Unmapped, 1)
	assert.Equal(t, model.UnmappedNotRecommended, res.Unmapped[0].Reason)
}

func TestAnalyze_StatusAndTolerance(t *testing.T) {
	rec := fixture()
	lead := channelFor(rec, model.SourceLeadVocal)
	g := lead.GainRange

	tests := []struct {
		name string
		gain float64
		mode model.SPLMode
		want model.DeltaStatus
	}{
		{"inside", g.Mid(), model.SPLBalanced, model.DeltaWithin},
		{"just over, balanced", g.HighDB + 2.5, model.SPLBalanced, model.DeltaWithin},
		{"just over, strict", g.HighDB + 2.5, model.SPLStrict, model.DeltaOver},
		{"far over, relaxed", g.HighDB + 6, model.SPLRelaxed, model.DeltaOver},
		{"under", g.LowDB - 4, model.SPLBalanced, model.DeltaUnder},
		{"under, relaxed", g.LowDB - 4, model.SPLRelaxed, model.DeltaWithin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := model.MixerSnapshot{Channels: []model.SnapshotChannel{{Number: 1, Name: "Lead Vox", GainDB: ptr(tt.gain)}}}
			res, err := Analyze(snap, rec, nil, model.SPLPreference{TargetDB: 90, Mode: tt.mode})
			require.NoError(t, err)
			require.Len(t, res.Channels, 1)
			assert.Equal(t, tt.want, res.Channels[0].Status)
		})
	}
}

func TestAnalyze_NoReadingExcludedFromGrade(t *testing.T) {
	rec := fixture()
	lead := channelFor(rec, model.SourceLeadVocal)
	snap := model.MixerSnapshot{Channels: []model.SnapshotChannel{
		{Number: 1, Name: "Lead Vox", GainDB: ptr(lead.GainRange.Mid())},
		{Number: 2, Name: "Kick"},
	}}

	res, err := Analyze(snap, rec, nil, model.DefaultSPLPreference())
	require.NoError(t, err)
	assert.Equal(t, 2, res.MappedCount)
	assert.Equal(t, 1, res.GradedCount)
	assert.Equal(t, model.DeltaNoReading, res.Channels[1].Status)
	assert.Equal(t, model.GradeClean, res.Grade)
	assert.Equal(t, 1.0, res.WithinFraction)
}

func TestAnalyze_PairsRepeatedSources(t *testing.T) {
	rec := fixture()
	bv := channelFor(rec, model.SourceBackingVocal)
	snap := model.MixerSnapshot{Channels: []model.SnapshotChannel{
		{Number: 2, Name: "BV 1", GainDB: ptr(bv.GainRange.Mid())},
		{Number: 3, Name: "BV 2", GainDB: ptr(bv.GainRange.Mid())},
		{Number: 4, Name: "BV 3", GainDB: ptr(bv.GainRange.Mid())},
	}}
	res, err := Analyze(snap, rec, nil, model.DefaultSPLPreference())
	require.NoError(t, err)
	assert.Equal(t, 3, res.MappedCount)
	assert.Empty(t, res.Unmapped)
}

func TestAnalyze_HPF(t *testing.T) {
	tol := DefaultTolerances()
	tests := []struct {
		name   string
		actual *float64
		target *float64
		want   model.HPFStatus
	}{
		{"neither", nil, nil, model.HPFNotApplicable},
		{"off reads as zero", ptr(0), nil, model.HPFNotApplicable},
		{"unexpected", ptr(80), nil, model.HPFUnexpected},
		{"missing", nil, ptr(100), model.HPFMissing},
		{"matched", ptr(110), ptr(100), model.HPFMatched},
		{"low", ptr(60), ptr(100), model.HPFLow},
		{"high", ptr(150), ptr(100), model.HPFHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, delta, status := tol.compareHPF(tt.actual, tt.target)
			assert.Equal(t, tt.want, status)
			if tt.actual != nil && tt.target != nil && *tt.actual > 0 {
				require.NotNil(t, delta)
				assert.Equal(t, *tt.actual-*tt.target, *delta)
			} else {
				assert.Nil(t, delta)
			}
		})
	}
}

func TestAnalyze_PhantomOnLineSource(t *testing.T) {
	rec := fixture()
	snap := model.MixerSnapshot{Channels: []model.SnapshotChannel{
		{Number: 9, Name: "Tracks L", GainDB: ptr(5), Phantom: true},
		{Number: 1, Name: "Lead Vox", GainDB: ptr(35), Phantom: true},
	}}
	res, err := Analyze(snap, rec, nil, model.DefaultSPLPreference())
	require.NoError(t, err)
	require.Len(t, res.Channels, 2)
	assert.True(t, res.Channels[0].PhantomOnLineSource)
	assert.False(t, res.Channels[1].PhantomOnLineSource)
}

func TestGrade(t *testing.T) {
	tol := DefaultTolerances()
	tests := []struct {
		name                        string
		graded, within, over, under int
		want                        model.Grade
	}{
		{"none", 0, 0, 0, 0, model.GradeUnrated},
		{"all within", 10, 10, 0, 0, model.GradeClean},
		{"nine of ten", 10, 9, 1, 0, model.GradeClean},
		{"good", 10, 7, 2, 1, model.GradeGood},
		{"hot", 10, 4, 5, 1, model.GradeOverTarget},
		{"cold", 10, 4, 1, 5, model.GradeNeedsAttention},
		{"tied", 10, 4, 3, 3, model.GradeNeedsAttention},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, frac := tol.grade(tt.graded, tt.within, tt.over, tt.under)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(frac))
		})
	}
}
