package cmd

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/spf13/cobra"

	"github.com/hubailmm/pascal/decomp"
	"github.com/hubailmm/pascal/pascalconfig"
	"github.com/hubailmm/pascal/partition"
	"github.com/hubailmm/pascal/value"
)

var decomposeConfigPath string

var decomposeCmd = &cobra.Command{
	Use:   "decompose",
	Short: "print the atomic-stage plan for the stencil-then-pointwise demo graph",
	RunE:  runDecompose,
}

func init() {
	rootCmd.AddCommand(decomposeCmd)
	decomposeCmd.Flags().StringVarP(&decomposeConfigPath, "config", "c", "", "path to a pascalconfig JSON file (required)")
	decomposeCmd.MarkFlagRequired("config")
}

// stencilOp is a minimal value.Operation used only to give the demo
// graph a stencil edge (AccessNeighbor true) for the partitioner to
// see. With partition.Greedy the demo graph still decomposes into a
// single stage: its one stencil sits directly on the sources.
type stencilOp struct {
	inputs []any
}

func (o *stencilOp) Inputs() []any        { return o.inputs }
func (o *stencilOp) AccessNeighbor() bool { return true }
func (o *stencilOp) Perform([]any) (any, error) {
	return nil, nil
}

type pointwiseOp struct {
	inputs []any
}

func (o *pointwiseOp) Inputs() []any        { return o.inputs }
func (o *pointwiseOp) AccessNeighbor() bool { return false }
func (o *pointwiseOp) Perform([]any) (any, error) {
	return nil, nil
}

func runDecompose(cmd *cobra.Command, args []string) error {
	cfg, err := pascalconfig.Load(decomposeConfigPath)
	if err != nil {
		return err
	}

	shape := []int{cfg.Ni, cfg.Nj}
	i := value.NewSource(shape)
	j := value.NewSource(shape)
	stencilSum := value.New(shape, &stencilOp{inputs: []any{i, j}})
	sinked := value.New(shape, &pointwiseOp{inputs: []any{stencilSum}})

	var p partition.Partitioner = partition.Greedy{}
	if cfg.PartitionerPath != "" {
		p = partition.Subprocess{Path: cfg.PartitionerPath, Args: cfg.PartitionerArgs}
	}

	stages, err := decomp.Decompose([]*value.Value{i, j}, []*value.Value{sinked}, p)
	if err != nil {
		return err
	}

	if mpi.Rank() == 0 {
		io.PfWhite("\npascal decompose -- atomic-stage plan\n\n")
		for k, stage := range stages {
			io.Pf("stage %d: %d source(s) -> %d sink(s)\n", k, len(stage.Sources()), len(stage.Sinks()))
		}
	}
	return nil
}
