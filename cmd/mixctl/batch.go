package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/recommend"
	"github.com/sanctuarysound/api/internal/service"
)

type batchItem struct {
	path       string
	svc        model.Service
	generation int64
}

func (c *cli) batchCmd() *cobra.Command {
	var (
		outDir string
		jobs   int
	)
	cmd := &cobra.Command{
		Use:   "batch <service files...> --out <dir>",
		Short: "Generate recommendations for many services concurrently",
		Long: `Generates one <service id>.json per service into --out. When several
files share a service ID, the one listed last wins.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output dir: %w", err)
			}
			written, err := runBatch(cmd.Context(), c.cfg.Engine.Tuning(), args, outDir, jobs, c.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d recommendation(s) to %s\n", written, outDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "recommendations", "output directory")
	cmd.Flags().IntVar(&jobs, "jobs", 4, "concurrent generations")
	return cmd
}

// runBatch hands out generations in argument order, then generates
// concurrently. Only the newest generation per service ID is written.
func runBatch(ctx context.Context, tuning recommend.Tuning, paths []string, outDir string, jobs int, log *zap.Logger) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	gens := service.NewMemoryGenerations()

	items := make([]batchItem, 0, len(paths))
	for _, p := range paths {
		svc, err := loadService(p)
		if err != nil {
			return 0, err
		}
		if svc.ID == "" {
			svc.ID = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		if !safeFileName(svc.ID) {
			return 0, fmt.Errorf("%s: service id %q cannot be used as a file name", p, svc.ID)
		}
		gen, err := gens.Next(ctx, svc.ID)
		if err != nil {
			return 0, err
		}
		items = append(items, batchItem{path: p, svc: svc, generation: gen})
	}

	if jobs < 1 {
		jobs = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	results := make([]bool, len(items))
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := tuning.Generate(it.svc)

			current, err := gens.Current(ctx, it.svc.ID)
			if err != nil {
				return err
			}
			if it.generation < current {
				log.Info("superseded",
					zap.String("file", it.path),
					zap.String("serviceId", it.svc.ID),
					zap.Int64("generation", it.generation),
				)
				return nil
			}

			out := filepath.Join(outDir, it.svc.ID+".json")
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := writeJSON(f, rec); err != nil {
				f.Close()
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			results[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	written := 0
	for _, ok := range results {
		if ok {
			written++
		}
	}
	return written, nil
}

// safeFileName reports whether id names a file directly inside the output
// directory.
func safeFileName(id string) bool {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return false
	}
	return filepath.Base(id) == id
}
