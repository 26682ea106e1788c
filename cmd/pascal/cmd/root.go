package cmd

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/spf13/cobra"
)

// rootCmd mirrors gofem's main.go banner and recover/mpi.Start/mpi.Stop
// lifecycle, restructured as a Cobra root command with "run" and
// "decompose" subcommands instead of gofem's raw positional arguments.
var rootCmd = &cobra.Command{
	Use:   "pascal",
	Short: "distributed stencil execution engine",
	Long: `pascal drives a commander/worker fabric over a 2D-toroidal tile
partition, evaluating symbolic value graphs one decomposed stage at a
time.`,
}

// Execute runs the root command inside the same
// recover/mpi.Start/mpi.Stop envelope gofem's main.go wraps every run
// in, so a panicking subcommand still prints a red banner and stops
// cleanly instead of dumping a bare Go stack trace.
func Execute() {
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	if err := rootCmd.Execute(); err != nil {
		if mpi.Rank() == 0 {
			io.PfRed("ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}
