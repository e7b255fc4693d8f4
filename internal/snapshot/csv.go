// Package snapshot reads mixer snapshots exported as CSV by console editors
// or typed up by hand.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sanctuarysound/api/internal/model"
)

var (
	ErrEmpty    = errors.New("snapshot csv is empty")
	ErrNoHeader = errors.New("snapshot csv has no recognizable header")
)

type column int

const (
	colNumber column = iota
	colName
	colGain
	colFader
	colHPF
	colPhantom
)

var headerAliases = map[string]column{
	"ch": colNumber, "channel": colNumber, "number": colNumber, "#": colNumber, "no": colNumber, "input": colNumber,
	"name": colName, "label": colName, "source": colName, "scribble": colName,
	"gain": colGain, "gain db": colGain, "gain_db": colGain, "preamp": colGain, "trim": colGain, "head amp": colGain,
	"fader": colFader, "fader db": colFader, "fader_db": colFader, "level": colFader,
	"hpf": colHPF, "hpf hz": colHPF, "hpf_hz": colHPF, "low cut": colHPF, "lowcut": colHPF, "hpf freq": colHPF,
	"phantom": colPhantom, "48v": colPhantom, "+48v": colPhantom, "+48": colPhantom, "phantom power": colPhantom,
}

// Result is a parsed snapshot plus the 1-based data rows that were skipped.
type Result struct {
	Snapshot model.MixerSnapshot
	Skipped  []int
}

// ParseCSV reads a header row followed by one row per channel. Unknown
// columns are ignored, unreadable cells become missing readings and rows
// without a usable channel number are skipped. When there is no channel
// column, rows are numbered in order.
func ParseCSV(r io.Reader, console model.ConsoleModel) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, ErrEmpty
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[column]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.NewReplacer("(", "", ")", "").Replace(key)
		if c, ok := headerAliases[key]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	if len(cols) == 0 {
		return Result{}, ErrNoHeader
	}

	res := Result{Snapshot: model.MixerSnapshot{Console: console, Channels: []model.SnapshotChannel{}}}
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return Result{}, fmt.Errorf("failed to read row %d: %w", row, err)
			}
			res.Skipped = append(res.Skipped, row)
			continue
		}
		if blank(rec) {
			continue
		}

		ch := model.SnapshotChannel{Number: row}
		if i, ok := cols[colNumber]; ok {
			n, ok := parseNumber(cell(rec, i))
			if !ok {
				res.Skipped = append(res.Skipped, row)
				continue
			}
			ch.Number = n
		}
		if i, ok := cols[colName]; ok {
			ch.Name = cell(rec, i)
		}
		if i, ok := cols[colGain]; ok {
			ch.GainDB = parseLevel(cell(rec, i))
		}
		if i, ok := cols[colFader]; ok {
			ch.FaderDB = parseLevel(cell(rec, i))
		}
		if i, ok := cols[colHPF]; ok {
			ch.HPFHz = parseFrequency(cell(rec, i))
		}
		if i, ok := cols[colPhantom]; ok {
			ch.Phantom = parseBool(cell(rec, i))
		}
		res.Snapshot.Channels = append(res.Snapshot.Channels, ch)
	}
	return res, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts "12", "Ch 12", "CH12" and "12.0".
func parseNumber(s string) (int, bool) {
	s = strings.TrimLeft(strings.ToLower(s), "ch. ")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// parseLevel reads dB values such as "32", "+4.5 dB" or "-10dB". "-inf" and
// "off" mean the reading is absent.
func parseLevel(s string) *float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "db"))
	switch s {
	case "", "off", "-inf", "-oo", "-∞", "n/a", "na":
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "+"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseFrequency reads "80", "80 Hz" or "1.2k". "off" means no filter.
func parseFrequency(s string) *float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "hz"))
	mult := 1.0
	if strings.HasSuffix(s, "k") {
		s, mult = strings.TrimSuffix(s, "k"), 1000
	}
	switch s {
	case "", "off", "n/a", "na", "bypass":
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 || math.IsInf(f, 0) {
		return nil
	}
	f *= mult
	return &f
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "y", "yes", "on", "true", "x", "+48", "48v", "+48v":
		return true
	}
	return false
}
