package recommend

import "github.com/sanctuarysound/api/internal/model"

// eqRole orders EQ suggestions by priority when a console has fewer
// bands than the engine would like to use.
type eqRole int

const (
	roleMudCut eqRole = iota // gain and Q come from Tuning
	roleCut
	roleBoost
)

type eqTemplate struct {
	role   eqRole
	hz     float64
	q      float64
	gainDB float64
	reason string
}

type compBaseline struct {
	thresholdDB float64
	ratio       float64
	attackMs    float64
	releaseMs   float64
	reason      string
}

// sourceProfile is the per-source starting point before room, console,
// vocal profile and set list adjustments.
type sourceProfile struct {
	gain          model.GainRange
	faderOffsetDB float64
	hpfHz         float64 // 0 leaves the filter out
	carriesLowEnd bool    // program content the set list's bass notes live in
	eq            []eqTemplate
	comp          *compBaseline
	// nominal is the fundamental region used for masking checks when the
	// channel has no EQ boost. Zero means the source never masks.
	nominal [2]float64
}

var (
	mudCut = func(hz float64) eqTemplate {
		return eqTemplate{role: roleMudCut, hz: hz, reason: "Clear low-mid buildup"}
	}
	boost = func(hz, q, gain float64, reason string) eqTemplate {
		return eqTemplate{role: roleBoost, hz: hz, q: q, gainDB: gain, reason: reason}
	}
	cut = func(hz, q, gain float64, reason string) eqTemplate {
		return eqTemplate{role: roleCut, hz: hz, q: q, gainDB: gain, reason: reason}
	}
)

var profiles = [...]sourceProfile{
	model.SourceNone: {},

	model.SourceLeadVocal: {
		gain: model.GainRange{LowDB: 30, HighDB: 45}, faderOffsetDB: 0,
		eq: []eqTemplate{
			mudCut(300),
			boost(3000, 1.0, 2, "Presence for intelligibility"),
		},
		comp:    &compBaseline{-18, 3, 10, 80, "Even out phrasing so the lead sits on top"},
		nominal: [2]float64{150, 1000},
	},
	model.SourceBackingVocal: {
		gain: model.GainRange{LowDB: 30, HighDB: 45}, faderOffsetDB: -5,
		eq: []eqTemplate{
			mudCut(300),
			cut(3000, 1.5, -1.5, "Tuck presence under the lead"),
		},
		comp:    &compBaseline{-20, 3, 10, 80, "Keep harmonies consistent behind the lead"},
		nominal: [2]float64{150, 1000},
	},
	model.SourceChoir: {
		gain: model.GainRange{LowDB: 35, HighDB: 50}, faderOffsetDB: -4, hpfHz: 120,
		eq: []eqTemplate{
			mudCut(250),
			boost(4000, 1.0, 2, "Lift diction over the band"),
		},
		comp:    &compBaseline{-22, 2, 15, 120, "Gentle leveling across sections"},
		nominal: [2]float64{150, 1200},
	},

	model.SourceHandheldSpeech: {
		gain: model.GainRange{LowDB: 30, HighDB: 45}, faderOffsetDB: 2, hpfHz: 100,
		eq: []eqTemplate{
			mudCut(250),
			boost(2500, 1.0, 2, "Speech intelligibility"),
		},
		comp:    &compBaseline{-20, 3, 5, 100, "Hold level as the talker moves off the mic"},
		nominal: [2]float64{100, 800},
	},
	model.SourceHeadsetSpeech: {
		gain: model.GainRange{LowDB: 30, HighDB: 45}, faderOffsetDB: 2, hpfHz: 120,
		eq: []eqTemplate{
			mudCut(300),
			boost(2500, 1.0, 1.5, "Speech intelligibility"),
			cut(6000, 2.0, -2, "Tame sibilance close to the mouth"),
		},
		comp:    &compBaseline{-20, 3, 5, 100, "Hold level across loud and quiet passages"},
		nominal: [2]float64{100, 800},
	},
	model.SourcePodiumSpeech: {
		gain: model.GainRange{LowDB: 30, HighDB: 45}, faderOffsetDB: 2, hpfHz: 100,
		eq: []eqTemplate{
			mudCut(250),
			boost(3000, 1.0, 2, "Reach for distance from the capsule"),
		},
		comp:    &compBaseline{-22, 3, 5, 120, "Catch level changes as the talker leans in"},
		nominal: [2]float64{100, 800},
	},

	model.SourceKick: {
		gain: model.GainRange{LowDB: 15, HighDB: 30}, faderOffsetDB: -2, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(350),
			boost(60, 1.2, 3, "Low-end thump"),
			boost(4000, 1.5, 2, "Beater click"),
		},
		comp:    &compBaseline{-12, 4, 20, 60, "Control peaks while keeping the transient"},
		nominal: [2]float64{50, 120},
	},
	model.SourceSnare: {
		gain: model.GainRange{LowDB: 20, HighDB: 35}, faderOffsetDB: -3, hpfHz: 80,
		eq: []eqTemplate{
			cut(500, 2.0, -2, "Reduce ring"),
			boost(5000, 1.2, 2, "Crack"),
		},
		comp:    &compBaseline{-14, 4, 10, 80, "Steady backbeat"},
		nominal: [2]float64{150, 300},
	},
	model.SourceHiHat: {
		gain: model.GainRange{LowDB: 20, HighDB: 35}, faderOffsetDB: -10, hpfHz: 200,
		eq: []eqTemplate{
			cut(1000, 1.5, -2, "Reduce clang"),
		},
	},
	model.SourceRackTom: {
		gain: model.GainRange{LowDB: 15, HighDB: 30}, faderOffsetDB: -5, hpfHz: 70, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(400),
			boost(120, 1.2, 2, "Body"),
		},
		comp:    &compBaseline{-14, 3, 15, 100, "Even hits around the kit"},
		nominal: [2]float64{90, 250},
	},
	model.SourceFloorTom: {
		gain: model.GainRange{LowDB: 15, HighDB: 30}, faderOffsetDB: -5, hpfHz: 50, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(400),
			boost(100, 1.2, 2, "Body"),
		},
		comp:    &compBaseline{-14, 3, 15, 120, "Even hits around the kit"},
		nominal: [2]float64{70, 200},
	},
	model.SourceOverheadLeft: {
		gain: model.GainRange{LowDB: 20, HighDB: 35}, faderOffsetDB: -8, hpfHz: 150,
		eq: []eqTemplate{
			cut(400, 1.4, -2, "Reduce boxiness"),
			boost(10000, 0.8, 1.5, "Cymbal air"),
		},
	},
	model.SourceOverheadRight: {
		gain: model.GainRange{LowDB: 20, HighDB: 35}, faderOffsetDB: -8, hpfHz: 150,
		eq: []eqTemplate{
			cut(400, 1.4, -2, "Reduce boxiness"),
			boost(10000, 0.8, 1.5, "Cymbal air"),
		},
	},

	model.SourceBassDI: {
		gain: model.GainRange{LowDB: 5, HighDB: 20}, faderOffsetDB: -2, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(250),
			boost(80, 1.0, 2, "Weight under the kick"),
			boost(800, 1.5, 1.5, "Growl for small speakers"),
		},
		comp:    &compBaseline{-18, 4, 10, 120, "Lock the low end to a steady level"},
		nominal: [2]float64{40, 250},
	},
	model.SourceElectricGuitar: {
		gain: model.GainRange{LowDB: 10, HighDB: 25}, faderOffsetDB: -4, hpfHz: 80, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(300),
			boost(2000, 1.2, 1.5, "Bite"),
			cut(6000, 1.0, -2, "Tame fizz"),
		},
		comp:    &compBaseline{-16, 2.5, 20, 100, "Smooth picking dynamics"},
		nominal: [2]float64{100, 1500},
	},
	model.SourceAcousticGuitar: {
		gain: model.GainRange{LowDB: 10, HighDB: 25}, faderOffsetDB: -4, hpfHz: 80, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(250),
			boost(5000, 1.0, 2, "String sparkle"),
		},
		comp:    &compBaseline{-16, 3, 15, 100, "Tame strum peaks"},
		nominal: [2]float64{90, 1200},
	},
	model.SourceKeys: {
		gain: model.GainRange{LowDB: 0, HighDB: 10}, faderOffsetDB: -5, hpfHz: 40, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(300),
		},
		comp:    &compBaseline{-14, 2, 20, 150, "Light leveling between patches"},
		nominal: [2]float64{100, 1000},
	},
	model.SourcePiano: {
		gain: model.GainRange{LowDB: 0, HighDB: 12}, faderOffsetDB: -5, hpfHz: 40, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(300),
		},
		comp:    &compBaseline{-14, 2, 20, 150, "Light leveling across the keyboard"},
		nominal: [2]float64{80, 1000},
	},
	model.SourceSynthPad: {
		gain: model.GainRange{LowDB: 0, HighDB: 10}, faderOffsetDB: -10, hpfHz: 60, carriesLowEnd: true,
		eq: []eqTemplate{
			mudCut(300),
		},
		nominal: [2]float64{100, 2000},
	},

	model.SourceTracks: {
		gain: model.GainRange{LowDB: 0, HighDB: 10}, faderOffsetDB: -5,
	},
	model.SourceClick: {
		gain: model.GainRange{LowDB: 0, HighDB: 6}, faderOffsetDB: -20, hpfHz: 100,
	},
	model.SourceMedia: {
		gain: model.GainRange{LowDB: 0, HighDB: 10}, faderOffsetDB: -2, hpfHz: 60,
	},
}

// Adding a source without a profiles row fails to compile.
var _ = [1]struct{}{}[len(profiles)-int(model.NumInputSources)]

func profileFor(s model.InputSource) sourceProfile {
	if !s.Valid() {
		return sourceProfile{}
	}
	return profiles[s]
}
