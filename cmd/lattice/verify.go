package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lattice/internal/diag"
	"lattice/internal/driver"
	"lattice/internal/ir"
	"lattice/internal/snapshot"
	"lattice/internal/ui"
)

var (
	verifyJobs     int
	verifyUI       bool
	verifyCacheDir string
)

func init() {
	verifyCmd.Flags().IntVar(&verifyJobs, "jobs", 0, "parallel workers (0 = one per CPU)")
	verifyCmd.Flags().BoolVar(&verifyUI, "ui", false, "interactive progress (requires a terminal)")
	verifyCmd.Flags().StringVar(&verifyCacheDir, "cache-dir", "", "cache verified digests under this directory")
}

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] <file.lsnap|dir>...",
	Short: "Verify IR snapshots",
	Long:  `Verify rebuilds each snapshot into live IR and checks its structural invariants`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	paths, err := expandArgs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no snapshot files found")
	}

	cacheDir := verifyCacheDir
	if cacheDir == "" {
		cacheDir = cfg.CacheDir
	}
	var cache *snapshot.DiskCache
	if cacheDir != "" {
		cache, err = snapshot.NewDiskCache(cacheDir)
		if err != nil {
			return err
		}
	}

	jobs := verifyJobs
	if jobs == 0 {
		jobs = cfg.Jobs
	}

	var results []driver.VerifyResult
	if verifyUI && isTerminal(os.Stdout) {
		results, err = verifyWithUI(cmd.Context(), paths, cache, jobs)
	} else {
		results, err = driver.VerifyAll(cmd.Context(), paths, cache, jobs, nil)
	}
	if err != nil {
		return err
	}

	return reportResults(cmd, results)
}

// expandArgs turns directories into their snapshot file lists.
func expandArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			files, err := driver.ListSnapshotFiles(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, files...)
			continue
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

type verifyOutcome struct {
	results []driver.VerifyResult
	err     error
}

func verifyWithUI(ctx context.Context, paths []string, cache *snapshot.DiskCache, jobs int) ([]driver.VerifyResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan verifyOutcome, 1)

	go func() {
		res, err := driver.VerifyAll(ctx, paths, cache, jobs, driver.ChannelSink{Ch: events})
		outcomeCh <- verifyOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("verifying snapshots", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func reportResults(cmd *cobra.Command, results []driver.VerifyResult) error {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	maxDiags, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed)

	bag := diag.NewBag(maxDiags)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			if collectDiags(bag, res.Err) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Path, res.Err)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", res.Path, failColor.Sprint("failed verification"))
			}
			continue
		}
		if !quiet {
			note := "ok"
			if res.Cached {
				note = "ok (cached)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Path, okColor.Sprint(note))
		}
		if timings && res.Timing != nil {
			for _, p := range res.Timing.Phases {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %7.2f ms\n", p.Name, p.DurationMS)
			}
		}
	}
	if bag.Len() > 0 {
		if err := diag.WriteBag(cmd.ErrOrStderr(), bag); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d snapshots failed verification", failed, len(results))
	}
	return nil
}

// collectDiags walks an error tree and moves every structured verify
// diagnostic into the bag, returning how many it found.
func collectDiags(bag *diag.Bag, err error) int {
	if err == nil {
		return 0
	}
	if ve, ok := err.(*ir.VerifyError); ok {
		bag.Add(ve.Diag)
		return 1
	}
	if de, ok := err.(*snapshot.DecodeError); ok {
		bag.Add(de.Diag)
		return 1
	}
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		n := 0
		for _, sub := range u.Unwrap() {
			n += collectDiags(bag, sub)
		}
		return n
	}
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return collectDiags(bag, u.Unwrap())
	}
	return 0
}
