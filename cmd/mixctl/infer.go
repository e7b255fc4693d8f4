package main

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanctuarysound/api/internal/inference"
	"github.com/sanctuarysound/api/internal/model"
)

func (c *cli) inferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "infer [label...]",
		Short: "Guess input sources from channel labels (reads stdin when no labels are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			labels := args
			if len(labels) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if l := strings.TrimSpace(sc.Text()); l != "" {
						labels = append(labels, l)
					}
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), model.InferResponse{Results: inference.InferAll(labels)})
		},
	}
}
