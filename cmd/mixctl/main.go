// Command mixctl runs the recommendation and analysis engines offline,
// against service descriptions and console exports on disk.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sanctuarysound/api/internal/config"
	"github.com/sanctuarysound/api/internal/logging"
	"github.com/sanctuarysound/api/internal/model"
)

type cli struct {
	logLevel      string
	maskingWidth  float64
	gainTolerance float64
	hpfTolerance  float64

	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "mixctl",
		Short:         "Channel strip recommendations and snapshot checks for live sound teams",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.Float64Var(&c.maskingWidth, "masking-width", 0, "key-conflict half-width in semitones (0 keeps the configured value)")
	flags.Float64Var(&c.gainTolerance, "gain-tolerance", 0, "balanced gain tolerance in dB (0 keeps the configured value)")
	flags.Float64Var(&c.hpfTolerance, "hpf-tolerance", 0, "HPF tolerance in Hz (0 keeps the configured value)")

	root.AddCommand(
		c.generateCmd(),
		c.analyzeCmd(),
		c.inferCmd(),
		c.batchCmd(),
		c.tokenCmd(),
	)
	return root
}

func (c *cli) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.maskingWidth > 0 {
		cfg.Engine.MaskingHalfWidthSemitones = c.maskingWidth
	}
	if c.gainTolerance > 0 {
		cfg.Engine.GainToleranceDB = c.gainTolerance
	}
	if c.hpfTolerance > 0 {
		cfg.Engine.HPFToleranceHz = c.hpfTolerance
	}
	c.cfg = cfg

	log, err := logging.New(c.logLevel, "development")
	if err != nil {
		return err
	}
	c.log = log.Named("mixctl")
	return nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	if err := model.RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}()

// loadService reads and validates a service description. Files ending in
// .json are JSON, everything else is YAML.
func loadService(path string) (model.Service, error) {
	var svc model.Service
	data, err := os.ReadFile(path)
	if err != nil {
		return svc, fmt.Errorf("failed to read service: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &svc)
	} else {
		err = yaml.Unmarshal(data, &svc)
	}
	if err != nil {
		return svc, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := validate.Struct(&svc); err != nil {
		return svc, fmt.Errorf("invalid service %s: %w", path, err)
	}
	return svc, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
