package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lattice/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice IR toolchain",
	Long:  `Lattice builds, dumps and verifies IR module snapshots`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return resolveColor(cmd)
	},
}

// resolveColor settles the --color flag into the global color switch
// before any command writes output.
func resolveColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("unsupported --color %q (must be auto, on or off)", mode)
	}
	return nil
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to lattice.toml")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
