package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	instagram "github.com/RavensCloud/instagram-gofun"
)

var descriptorCmd = &cobra.Command{
	Use:   "descriptor [file]",
	Short: "Print the page locators in use as JSON",
	Long: "Print the built-in page locators, or the result of merging [file] onto them.\n" +
		"Save the output, edit it and pass it back with scrape --descriptor.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := instagram.DefaultDescriptor()
		if len(args) == 1 {
			var err error
			if d, err = instagram.LoadDescriptor(args[0]); err != nil {
				return err
			}
		}
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("encode descriptor: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(descriptorCmd)
}
