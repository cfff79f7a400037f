package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.cont.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend unreachable at %s: %w", a.cfg.APIBaseURL, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend %s: %s\n", a.cfg.APIBaseURL, h.Status)
			if h.Message != "" {
				fmt.Fprintln(out, h.Message)
			}
			return nil
		},
	}
}
