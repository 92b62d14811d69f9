package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/hopeconnect/pkg/core/services"
)

// ListOpportunitiesCmd creates the listOpportunities command
func ListOpportunitiesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listOpportunities",
		Short: "List volunteer opportunities and their next sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opportunities, err := services.NextSessions(app.Cfg.SiteOpportunities(), app.Clock.Now())
			if err != nil {
				return fmt.Errorf("failed to compute next sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d opportunities:\n\n", len(opportunities))
			for _, o := range opportunities {
				next := "no scheduled session"
				if o.NextSession != nil {
					next = "next session " + o.NextSession.Format("Mon 2 Jan 2006, 15:04")
				}
				fmt.Fprintf(out, "- %s (%s) - %s - %s\n", o.Title, o.Location, o.Time, next)
				if len(o.Skills) > 0 {
					fmt.Fprintf(out, "    skills: %s\n", strings.Join(o.Skills, ", "))
				}
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}
