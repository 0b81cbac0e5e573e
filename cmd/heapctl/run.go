package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	runHeap      heapFlags
	runShowMap   bool
	runShowTable bool
	runMapWidth  int
	runMaxBlocks int
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay an allocation trace and report the final heap",
		Long: `The run command replays an allocation script against a freshly formatted
heap and prints the resulting block map and usage summary.

Script lines are "alloc <name> <size>", "free <name>" and "check"; '#' starts
a comment. Allocation failures are reported but do not stop the replay.

Example:
  heapctl run workload.trace
  heapctl run workload.trace --size 1MiB --validate strict --map
  heapctl run workload.trace --json
  heapctl run warmup.trace --file state.heap && heapctl run steady.trace --file state.heap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}

	cmd.Flags().StringVar(&runHeap.size, "size", defaultHeapSize, "Heap size (e.g. 4096, 64KiB, 1MB)")
	cmd.Flags().StringVar(&runHeap.backing, "backing", "auto", "Heap memory: auto, mmap, go")
	cmd.Flags().StringVar(&runHeap.validate, "validate", "bounds", "Pointer validation in free: none, bounds, strict")
	cmd.Flags().BoolVar(&runHeap.prefault, "prefault", false, "Populate mapped pages up front")
	cmd.Flags().StringVar(&runHeap.file, "file", "", "Keep the heap in this file, reattaching it if it exists")
	cmd.Flags().BoolVar(&runShowMap, "map", false, "Draw an occupancy map of the final heap")
	cmd.Flags().BoolVar(&runShowTable, "blocks", true, "List every block of the final heap")
	cmd.Flags().IntVar(&runMapWidth, "width", printer.DefaultMapWidth, "Occupancy map width in cells")
	cmd.Flags().IntVar(&runMaxBlocks, "max-blocks", 0, "Limit listed blocks (0 = all)")
	return cmd
}

// runFailure is one allocation the replay could not satisfy.
type runFailure struct {
	Line  int    `json:"line"`
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Error string `json:"error"`
}

// runReport is the --json document.
type runReport struct {
	Trace    string          `json:"trace"`
	Ops      int             `json:"ops"`
	Allocs   int             `json:"allocs"`
	Failed   int             `json:"failed"`
	Frees    int             `json:"frees"`
	Checks   int             `json:"checks"`
	Live     int             `json:"live"`
	Failures []runFailure    `json:"failures,omitempty"`
	Heap     *printer.Report `json:"heap"`
}

func runRun(args []string) (err error) {
	tracePath := args[0]

	printVerbose("Parsing trace: %s\n", tracePath)
	script, err := trace.ParseFile(tracePath)
	if err != nil {
		return fmt.Errorf("failed to parse trace: %w", err)
	}

	a, err := newAllocator(runHeap)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeAllocator(a); err == nil {
			err = cerr
		}
	}()

	res, err := trace.Replay(a, script)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	if err := a.Check(); err != nil {
		return fmt.Errorf("heap corrupt after replay: %w", err)
	}

	failures := collectFailures(res)

	opts := printer.DefaultOptions()
	opts.ShowBlocks = runShowTable
	opts.MaxBlocks = runMaxBlocks
	opts.MapWidth = runMapWidth

	if jsonOut {
		report, err := printer.BuildReport(a, opts)
		if err != nil {
			return err
		}
		return printJSON(runReport{
			Trace:    tracePath,
			Ops:      len(script.Ops),
			Allocs:   res.Allocs,
			Failed:   res.Failed,
			Frees:    res.Frees,
			Checks:   res.Checks,
			Live:     len(res.Live),
			Failures: failures,
			Heap:     report,
		})
	}

	printInfo("%s\n", styled(headerStyle, "Trace: "+tracePath))
	printInfo("  %d ops: %d allocs (%d failed), %d frees, %d checks, %d live\n",
		len(script.Ops), res.Allocs, res.Failed, res.Frees, res.Checks, len(res.Live))
	for _, f := range failures {
		printInfo("  %s\n", styled(failStyle,
			fmt.Sprintf("line %d: alloc %s %d: %s", f.Line, f.Name, f.Size, f.Error)))
	}
	if verbose {
		for _, r := range res.Ops {
			if r.Err == nil && r.Op.Kind != trace.OpCheck {
				printVerbose("  line %d: %s %s -> %v\n", r.Op.Line, r.Op.Kind, r.Op.Name, r.Ptr)
			}
		}
	}
	printInfo("\n")

	if runShowMap {
		blocks, err := a.Snapshot()
		if err != nil {
			return err
		}
		printInfo("%s\n\n", renderMap(blocks, a.Capacity(), runMapWidth))
	}

	if quiet {
		return nil
	}
	return printer.Print(os.Stdout, a, opts)
}

func collectFailures(res *trace.Result) []runFailure {
	var failures []runFailure
	for _, r := range res.Ops {
		if r.Err == nil {
			continue
		}
		failures = append(failures, runFailure{
			Line:  r.Op.Line,
			Name:  r.Op.Name,
			Size:  r.Op.Size,
			Error: r.Err.Error(),
		})
	}
	return failures
}

// Compile-time check that the allocator satisfies the replay interface.
var _ trace.Allocator = (*alloc.Allocator)(nil)
