// Package analysis compares a captured mixer snapshot against a
// recommendation and grades how close the console is to target.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/sanctuarysound/api/internal/inference"
	"github.com/sanctuarysound/api/internal/model"
)

// ErrConsoleMismatch is returned when the snapshot and the recommendation
// come from different console models. Deltas across consoles are meaningless.
var ErrConsoleMismatch = errors.New("snapshot console does not match recommendation console")

// Tolerances holds the thresholds used to classify deltas and grade the mix.
type Tolerances struct {
	// GainDB is the allowed distance outside the recommended window, per SPL mode.
	GainDB map[model.SPLMode]float64
	HPFHz  float64

	CleanFraction float64
	GoodFraction  float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		GainDB: map[model.SPLMode]float64{
			model.SPLStrict:   2,
			model.SPLBalanced: 3,
			model.SPLRelaxed:  5,
		},
		HPFHz:         20,
		CleanFraction: 0.9,
		GoodFraction:  0.7,
	}
}

func (t Tolerances) gainFor(mode model.SPLMode) float64 {
	if v, ok := t.GainDB[mode]; ok {
		return v
	}
	return t.GainDB[model.SPLBalanced]
}

// Analyze runs the comparison with DefaultTolerances.
func Analyze(snap model.MixerSnapshot, rec model.MixerSettingRecommendation, mapping model.ChannelMapping, pref model.SPLPreference) (model.MixerAnalysis, error) {
	return DefaultTolerances().Analyze(snap, rec, mapping, pref)
}

// Analyze never fails on malformed channel data; channels it cannot use are
// reported in Unmapped or with a no_reading status. The only error is
// ErrConsoleMismatch.
func (t Tolerances) Analyze(snap model.MixerSnapshot, rec model.MixerSettingRecommendation, mapping model.ChannelMapping, pref model.SPLPreference) (model.MixerAnalysis, error) {
	recConsole := rec.Service.Console
	if snap.Console != "" && recConsole != "" && snap.Console != recConsole {
		return model.MixerAnalysis{}, fmt.Errorf("%w: snapshot %s, recommendation %s", ErrConsoleMismatch, snap.Console, recConsole)
	}

	out := model.MixerAnalysis{
		Console:  snap.Console,
		Channels: make([]model.ChannelDelta, 0, len(snap.Channels)),
		Unmapped: make([]model.UnmappedChannel, 0),
	}
	if out.Console == "" {
		out.Console = recConsole
	}

	bySource := make(map[model.InputSource][]model.ChannelRecommendation)
	for _, cr := range rec.Channels {
		bySource[cr.Channel.Source] = append(bySource[cr.Channel.Source], cr)
	}
	seen := make(map[model.InputSource]int)
	gainTol := t.gainFor(pref.Mode)

	var over, under int
	for _, sc := range snap.Channels {
		src, inferred, reason, ok := resolve(sc, mapping)
		if !ok {
			out.Unmapped = append(out.Unmapped, model.UnmappedChannel{Number: sc.Number, Name: sc.Name, Reason: reason})
			continue
		}
		candidates := bySource[src]
		if len(candidates) == 0 {
			out.Unmapped = append(out.Unmapped, model.UnmappedChannel{Number: sc.Number, Name: sc.Name, Reason: model.UnmappedNotRecommended})
			continue
		}

		// The n-th snapshot channel of a source pairs with the n-th
		// recommendation of that source; extras reuse the last one.
		idx := seen[src]
		if idx >= len(candidates) {
			idx = len(candidates) - 1
		}
		seen[src]++

		d := t.compare(sc, candidates[idx], gainTol)
		d.Source = src
		d.Inferred = inferred
		out.Channels = append(out.Channels, d)
		out.MappedCount++

		switch d.Status {
		case model.DeltaWithin:
			out.GradedCount++
			out.WithinCount++
		case model.DeltaOver:
			out.GradedCount++
			over++
		case model.DeltaUnder:
			out.GradedCount++
			under++
		}
	}

	out.Grade, out.WithinFraction = t.grade(out.GradedCount, out.WithinCount, over, under)
	return out, nil
}

func resolve(sc model.SnapshotChannel, mapping model.ChannelMapping) (src model.InputSource, inferred bool, reason model.UnmappedReason, ok bool) {
	if s, pinned := mapping[sc.Number]; pinned {
		if !s.Valid() {
			return model.SourceNone, false, model.UnmappedInvalidMapping, false
		}
		return s, false, "", true
	}
	if s, found := inference.Infer(sc.Name); found {
		return s, true, "", true
	}
	return model.SourceNone, false, model.UnmappedNoMatch, false
}

func (t Tolerances) compare(sc model.SnapshotChannel, cr model.ChannelRecommendation, gainTol float64) model.ChannelDelta {
	d := model.ChannelDelta{
		Number:              sc.Number,
		Name:                sc.Name,
		Recommended:         cr.GainRange,
		PhantomOnLineSource: sc.Phantom && cr.Channel.Source.IsLineLevel(),
	}

	if gain, ok := reading(sc.GainDB); ok {
		delta := cr.GainRange.DeltaFrom(gain)
		d.GainDB = &gain
		d.GainDeltaDB = &delta
		switch {
		case delta < -gainTol:
			d.Status = model.DeltaUnder
		case delta > gainTol:
			d.Status = model.DeltaOver
		default:
			d.Status = model.DeltaWithin
		}
	} else {
		d.Status = model.DeltaNoReading
	}

	d.HPFHz, d.TargetHPFHz, d.HPFDeltaHz, d.HPFStatus = t.compareHPF(sc.HPFHz, cr.HPFHz)
	return d
}

// compareHPF treats a zero or missing reading as "filter off".
func (t Tolerances) compareHPF(actual, target *float64) (*float64, *float64, *float64, model.HPFStatus) {
	a, haveActual := reading(actual)
	haveActual = haveActual && a > 0
	var tgt float64
	haveTarget := target != nil && *target > 0
	if haveTarget {
		tgt = *target
	}

	switch {
	case !haveActual && !haveTarget:
		return nil, nil, nil, model.HPFNotApplicable
	case haveActual && !haveTarget:
		return &a, nil, nil, model.HPFUnexpected
	case !haveActual:
		return nil, &tgt, nil, model.HPFMissing
	}

	delta := a - tgt
	status := model.HPFMatched
	switch {
	case delta < -t.HPFHz:
		status = model.HPFLow
	case delta > t.HPFHz:
		status = model.HPFHigh
	}
	return &a, &tgt, &delta, status
}

// reading copies a finite value out of an optional snapshot field.
func reading(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func (t Tolerances) grade(graded, within, over, under int) (model.Grade, float64) {
	if graded == 0 {
		return model.GradeUnrated, 0
	}
	frac := float64(within) / float64(graded)
	switch {
	case frac >= t.CleanFraction:
		return model.GradeClean, frac
	case frac >= t.GoodFraction:
		return model.GradeGood, frac
	case over > under:
		return model.GradeOverTarget, frac
	default:
		return model.GradeNeedsAttention, frac
	}
}
