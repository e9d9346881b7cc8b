package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smilepat/csat-connectedu-company/internal/spec"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered item types",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := spec.Load()
		if err != nil {
			return err
		}
		for _, code := range registry.Types() {
			sp, _ := registry.Get(code)
			fmt.Printf("%-10s %s\n", code, sp.Title)
		}
		return nil
	},
}
