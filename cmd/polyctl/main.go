package main

import (
	"os"

	"github.com/spf13/cobra"
)

// globals carries the persistent root flags.
type globals struct {
	configPath string
	statePath  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:          "polyctl",
		Short:        "Inspect and edit a PolyBoard state file",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ~/.polyboard/config.json)")
	rootCmd.PersistentFlags().StringVar(&g.statePath, "state", "", "state file (default from config)")

	rootCmd.AddCommand(generateCmd(g))
	rootCmd.AddCommand(showCmd(g))
	rootCmd.AddCommand(moveCmd(g))
	rootCmd.AddCommand(viewCmd(g))
	rootCmd.AddCommand(resetCmd(g))
	rootCmd.AddCommand(exportCmd(g))
	rootCmd.AddCommand(importCmd(g))
	rootCmd.AddCommand(backupCmd(g))
	rootCmd.AddCommand(restoreCmd(g))
	return rootCmd
}

func generateCmd(g *globals) *cobra.Command {
	var width, height float64
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Replace the buffer zone with a new random batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.OutOrStdout(), g, width, height, seed)
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "buffer width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "buffer height (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default from config, 0 = clock)")
	return cmd
}

func showCmd(g *globals) *cobra.Command {
	var output, zone string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.OutOrStdout(), g, output, zone)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	cmd.Flags().StringVar(&zone, "zone", "", "only list polygons of this zone")
	return cmd
}

func moveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "move [id] [zone] [x] [y]",
		Short: "Move a polygon to a position in a zone",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(cmd.OutOrStdout(), g, args)
		},
	}
}

func viewCmd(g *globals) *cobra.Command {
	var scale, tx, ty float64
	var reset bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Change the work zone pan and zoom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd.OutOrStdout(), g, cmd.Flags().Changed, scale, tx, ty, reset)
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 1, "zoom factor, clamped to [0.25, 10]")
	cmd.Flags().Float64Var(&tx, "tx", 0, "horizontal translation")
	cmd.Flags().Float64Var(&ty, "ty", 0, "vertical translation")
	cmd.Flags().BoolVar(&reset, "reset", false, "restore the default view")
	return cmd
}

func resetCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every polygon and remove the state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReset(cmd.OutOrStdout(), g)
		},
	}
}

func exportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "export [pdf|svg|labels|xlsx|dxf] [path]",
		Short: "Export the board to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), g, args[0], args[1])
		},
	}
}

func importCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import [path]",
		Short: "Replace the buffer zone with outlines read from a CSV, Excel or DXF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.OutOrStdout(), g, args[0])
		},
	}
}

func backupCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [path]",
		Short: "Write the board and settings to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd.OutOrStdout(), g, args[0])
		},
	}
}

func restoreCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [path]",
		Short: "Restore the board and settings from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd.OutOrStdout(), g, args[0])
		},
	}
}
