package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/sortviz"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sortviz",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sortviz version %s\n", strings.TrimSpace(sortviz.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
