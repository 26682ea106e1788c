package partition

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hubailmm/pascal/pascalerr"
)

// Subprocess invokes an external partitioner binary, writing the
// spec §6 text encoding to its stdin and parsing its stdout. A
// non-empty stderr is a fatal decomposition error, matching gofem's
// own pattern of shelling out to a separate tool (tools/) and
// treating any stderr output as failure.
type Subprocess struct {
	Path string
	Args []string
}

// Run implements Partitioner.
func (s Subprocess) Run(weights []int, edges []Edge) (c, d, e []int, err error) {
	numVertices := len(weights) - 1
	if numVertices < 0 {
		return nil, nil, nil, pascalerr.NewDecompositionError("weights must include the synthetic sink entry")
	}

	var in bytes.Buffer
	fmt.Fprintf(&in, "%d %d\n", numVertices, len(edges))
	for _, w := range weights {
		fmt.Fprintf(&in, "%d\n", w)
	}
	for _, edge := range edges {
		stencil := 0
		if edge.Stencil {
			stencil = 1
		}
		fmt.Fprintf(&in, "%d %d %d\n", edge.U, edge.V, stencil)
	}

	cmd := exec.CommandContext(context.Background(), s.Path, s.Args...)
	cmd.Stdin = &in
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, nil, nil, pascalerr.NewDecompositionError("partitioner %q failed: %v", s.Path, err)
	}
	if strings.TrimSpace(stderr.String()) != "" {
		return nil, nil, nil, pascalerr.NewDecompositionError("partitioner %q reported an error: %s", s.Path, stderr.String())
	}

	return parseMatrix(numVertices, &stdout)
}

func parseMatrix(numVertices int, r *bytes.Buffer) (c, d, e []int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	read := func() (int, bool) {
		if !scanner.Scan() {
			return 0, false
		}
		n, convErr := strconv.Atoi(scanner.Text())
		return n, convErr == nil
	}

	c = make([]int, numVertices)
	d = make([]int, numVertices)
	e = make([]int, numVertices)
	for i := 0; i < numVertices; i++ {
		cv, ok1 := read()
		dv, ok2 := read()
		ev, ok3 := read()
		if !ok1 || !ok2 || !ok3 {
			return nil, nil, nil, pascalerr.NewDecompositionError("malformed partitioner output: expected %d rows of 3 columns", numVertices)
		}
		if cv > dv {
			return nil, nil, nil, pascalerr.NewDecompositionError("malformed partitioner output: create stage %d > discard stage %d at vertex %d", cv, dv, i)
		}
		c[i], d[i], e[i] = cv, dv, ev
	}
	return c, d, e, nil
}
