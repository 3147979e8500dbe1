package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the asset agent a question from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := NewApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		a, err := app.Agents.New()
		if err != nil {
			return err
		}
		answer, err := a.Run(ctx, askSession, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session id whose memory is loaded and extended")
	rootCmd.AddCommand(askCmd)
}
