package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logwatch/internal/watcher"
)

func newLinesCommand(ctx *commandContext) *cobra.Command {
	var count int
	var file string
	var asTable bool
	var remote bool

	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Print the most recent non-empty lines of the log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var lines []string
			if remote {
				client, err := ctx.apiClient()
				if err != nil {
					return err
				}
				lines, err = client.Lines(cmd.Context(), count)
				if err != nil {
					return wrapDialError(err, client.BaseURL())
				}
			} else {
				path, err := ctx.watchPath(file)
				if err != nil {
					return err
				}
				lines, err = watcher.ReadLastLines(path, count)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asTable {
				if len(lines) == 0 {
					fmt.Fprintln(out, "No lines")
					return nil
				}
				fmt.Fprintln(out, renderLinesTable(lines, 1))
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "lines", "n", watcher.DefaultReplayLines, "Number of lines to print")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read this file instead of the configured watch_file")
	cmd.Flags().BoolVar(&asTable, "table", false, "Render lines as a numbered table")
	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the running daemon instead of reading the file")
	cmd.MarkFlagsMutuallyExclusive("file", "remote")
	return cmd
}
