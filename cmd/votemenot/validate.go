package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load politician content and report problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			roster, err := loadRoster(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := range roster.Len() {
				p := roster.At(i)
				trees, nodes := 0, 0
				for _, c := range p.Claims {
					if c.Questions != nil {
						trees++
						nodes += len(c.Questions.Nodes)
					}
				}
				fmt.Fprintf(out, "%2d. %-20s %-8s %d claims, %d question trees (%d nodes)\n",
					i+1, p.ID, p.Affiliation, len(p.Claims), trees, nodes)
			}
			fmt.Fprintf(out, "ok: %d politicians in %s\n", roster.Len(), cfg.Content.PoliticiansDir)
			return nil
		},
	}
}
