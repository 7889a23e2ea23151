package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/agricarbon/internal/cli"
	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			svc, err := newClient(cfg)
			if err != nil {
				return err
			}

			status, err := svc.Health(cmd.Context())
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(status.APIKeysLoaded))
			for name := range status.APIKeysLoaded {
				keys = append(keys, name)
			}
			sort.Strings(keys)

			var lines []string
			for _, name := range keys {
				mark := cli.SuccessStyle.Render(cli.SuccessIcon)
				if !status.APIKeysLoaded[name] {
					mark = cli.ErrorStyle.Render(cli.ErrorIcon)
				}
				lines = append(lines, fmt.Sprintf("%s %s", mark, name))
			}

			body := fmt.Sprintf("Service: %s\nStatus:  %s", cfg.APIBaseURL, status.Status)
			if len(lines) > 0 {
				body += "\n\nAPI keys:\n" + strings.Join(lines, "\n")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Analysis Service", body))
			return err
		},
	}
}
