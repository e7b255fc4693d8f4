package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/snapshot"
)

type analyzeOptions struct {
	snapshot       string
	recommendation string
	mode           string
	targetDB       float64
	mappings       []string
}

func (c *cli) analyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze <service.yaml> --snapshot <export.csv>",
		Short: "Compare a console export against the service's recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return err
			}

			rec, err := c.recommendationFor(svc, opts.recommendation)
			if err != nil {
				return err
			}

			f, err := os.Open(opts.snapshot)
			if err != nil {
				return fmt.Errorf("failed to open snapshot: %w", err)
			}
			defer f.Close()

			parsed, err := snapshot.ParseCSV(f, rec.Service.Console)
			if err != nil {
				return err
			}
			if len(parsed.Skipped) > 0 {
				c.log.Warn("skipped unreadable rows", zap.Ints("rows", parsed.Skipped))
			}

			mapping, err := parseMappings(opts.mappings)
			if err != nil {
				return err
			}

			pref := model.SPLPreference{TargetDB: opts.targetDB, Mode: model.SPLMode(opts.mode)}
			report, err := c.cfg.Engine.Tolerances().Analyze(parsed.Snapshot, rec, mapping, pref)
			if err != nil {
				return err
			}
			c.log.Info("analyzed",
				zap.String("serviceId", svc.ID),
				zap.String("grade", string(report.Grade)),
				zap.Int("unmapped", len(report.Unmapped)),
			)
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.snapshot, "snapshot", "", "console CSV export")
	flags.StringVar(&opts.recommendation, "recommendation", "", "saved recommendation JSON (generated from the service when empty)")
	flags.StringVar(&opts.mode, "mode", string(model.SPLBalanced), "SPL mode (strict, balanced, relaxed)")
	flags.Float64Var(&opts.targetDB, "target-db", model.DefaultSPLPreference().TargetDB, "target SPL in dB")
	flags.StringSliceVar(&opts.mappings, "map", nil, "pin a channel to a source, e.g. --map 7=acoustic_guitar")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func (c *cli) recommendationFor(svc model.Service, path string) (model.MixerSettingRecommendation, error) {
	if path == "" {
		return c.cfg.Engine.Tuning().Generate(svc), nil
	}
	var rec model.MixerSettingRecommendation
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("failed to read recommendation: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("failed to decode recommendation: %w", err)
	}
	return rec, nil
}

// parseMappings reads channel=source pairs. An unknown source name is kept
// as an invalid mapping so the report flags it.
func parseMappings(pairs []string) (model.ChannelMapping, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(model.ChannelMapping, len(pairs))
	for _, p := range pairs {
		ch, name, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping %q, want channel=source", p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(ch))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid channel in mapping %q", p)
		}
		src, err := model.ParseInputSource(strings.TrimSpace(name))
		if err != nil {
			src = model.SourceNone
		}
		m[n] = src
	}
	return m, nil
}
