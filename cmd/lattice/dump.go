package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lattice/internal/debuginfo"
	"lattice/internal/ir"
	"lattice/internal/snapshot"
)

var dumpNames string

func init() {
	dumpCmd.Flags().StringVar(&dumpNames, "names", "", "TOML debug-name file for value names")
}

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] file.lsnap",
	Short: "Print a snapshot as readable IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	payload, _, err := snapshot.LoadFile(args[0])
	if err != nil {
		return err
	}
	ctx, mod, err := snapshot.Build(payload)
	if err != nil {
		return fmt.Errorf("build IR: %w", err)
	}

	namesPath := dumpNames
	if namesPath == "" {
		namesPath = cfg.Names
	}
	var names *debuginfo.Registry
	if namesPath != "" {
		names, err = debuginfo.LoadFile(namesPath)
		if err != nil {
			return err
		}
	}

	return ir.DumpModule(os.Stdout, ctx, mod, ir.DumpOptions{Names: names})
}
