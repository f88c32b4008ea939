package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var asTable bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return wrapDialError(err, client.BaseURL())
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(status)
			case asTable:
				fmt.Fprintln(out, renderKeyValueTable([][2]string{
					{"Running", yesNo(status.Running)},
					{"State", status.State},
					{"PID", strconv.Itoa(status.PID)},
					{"File", status.Path},
					{"Encoding", status.Encoding},
					{"Offset", strconv.FormatInt(status.Offset, 10)},
					{"Subscribers", strconv.Itoa(status.Subscribers)},
				}))
				return nil
			}

			colorize := shouldColorize(out)
			for _, line := range statusLines(status, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw status as JSON")
	cmd.Flags().BoolVar(&asTable, "table", false, "Render the status as a table")
	cmd.MarkFlagsMutuallyExclusive("json", "table")
	return cmd
}
