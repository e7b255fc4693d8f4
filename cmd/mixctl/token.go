package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanctuarysound/api/internal/auth"
)

func (c *cli) tokenCmd() *cobra.Command {
	var (
		operator string
		email    string
		team     string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token signed with the configured JWT secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := auth.IssueOperatorToken(c.cfg.JWT.Secret, operator, email, team, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "operator ID")
	cmd.Flags().StringVar(&email, "email", "", "operator email")
	cmd.Flags().StringVar(&team, "team", "", "team ID")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime (0 for no expiry)")
	_ = cmd.MarkFlagRequired("operator")
	return cmd
}
