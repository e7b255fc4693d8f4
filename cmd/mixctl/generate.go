package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanctuarysound/api/internal/model"
)

func (c *cli) generateCmd() *cobra.Command {
	var detail string
	cmd := &cobra.Command{
		Use:   "generate <service.yaml>",
		Short: "Print channel strip recommendations for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(args[0])
			if err != nil {
				return err
			}
			if detail != "" {
				svc.Detail = model.DetailLevel(detail)
			}

			rec := c.cfg.Engine.Tuning().Generate(svc)
			c.log.Info("generated",
				zap.String("serviceId", svc.ID),
				zap.Int("channels", len(rec.Channels)),
				zap.Int("notes", len(rec.Notes)),
			)
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringVar(&detail, "detail", "", "override detail level (essentials, detailed, full)")
	return cmd
}
