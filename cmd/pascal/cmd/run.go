package cmd

import (
	"sync"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/spf13/cobra"

	"github.com/hubailmm/pascal/fabric"
	"github.com/hubailmm/pascal/ops"
	"github.com/hubailmm/pascal/pascalconfig"
	"github.com/hubailmm/pascal/transport"
)

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "spawn a worker torus and evaluate the i+j demo graph on it",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to a pascalconfig JSON file (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := pascalconfig.Load(runConfigPath)
	if err != nil {
		return err
	}

	if mpi.Rank() == 0 && cfg.Verbose {
		io.PfWhite("\npascal run -- distributed stencil execution engine\n\n")
		io.Pf("%v\n", io.ArgsTable(
			"grid rows", "ni", cfg.Ni,
			"grid columns", "nj", cfg.Nj,
			"process-grid rows", "niProc", cfg.NiProc,
			"process-grid columns", "njProc", cfg.NjProc,
		))
	}

	n := cfg.NiProc * cfg.NjProc
	local := transport.NewLocal(n)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for rank := 0; rank < n; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			w := fabric.NewWorker(rank, local.Worker(rank))
			if err := w.Run(); err != nil {
				errs <- err
			}
		}(rank)
	}

	c, err := fabric.NewCommander(cfg.Ni, cfg.Nj, cfg.NiProc, cfg.NjProc, local)
	if err != nil {
		return err
	}
	c.Verbose = cfg.Verbose

	iPlusJ := c.NewKey()
	if _, err := c.Func(ops.Add, []any{fabric.KeyI, fabric.KeyJ}, iPlusJ); err != nil {
		c.Finalize()
		wg.Wait()
		return err
	}
	sums, err := c.Method(iPlusJ, "sum", nil, nil)
	c.Finalize()
	wg.Wait()
	close(errs)
	for werr := range errs {
		if err == nil {
			err = werr
		}
	}
	if err != nil {
		return err
	}

	if mpi.Rank() == 0 {
		io.PfGreen("\nper-worker sum(i+j):\n")
		for rank, s := range sums {
			io.Pf("  worker %d: %v\n", rank, s)
		}
	}
	return nil
}
