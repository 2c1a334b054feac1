package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quilt/internal/engine"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the validation cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := engine.OpenDiskCache("quilt")
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "validation cache dropped")
		return nil
	},
}
