package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/JarrettBillingsley/Croc-sub002/alloc"
	"github.com/JarrettBillingsley/Croc-sub002/gc"
	"github.com/JarrettBillingsley/Croc-sub002/rt"
)

// statsReport is the JSON/text shape printed by the stats command: the
// collector's buffer occupancy right before close, and the allocator's
// leak report right after.
type statsReport struct {
	BytesAllocated int64    `json:"bytesAllocated"`
	GC             gc.Stats `json:"gc"`
	ResidualBytes  int64    `json:"residualBytes"`
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	scratch := fs.Int("scratch", 100, "number of scratch tables to allocate before collecting")
	arena := fs.Bool("arena", false, "back allocations with the mmap arena instead of the Go heap")
	jsonOut := fs.Bool("json", false, "output as JSON")
	fs.Parse(args)

	if err := checkArgs(fs); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	var memFunc alloc.MemFunc
	if *arena {
		memFunc = alloc.NewArenaMemFunc()
	}
	vm := rt.Open(memFunc, nil)

	for i := 0; i < *scratch; i++ {
		tbl := vm.NewTable()
		tbl.Set(rt.NewInt(int64(i)), rt.NewInt(int64(i*i)))
		vm.MaybeCollect()
	}

	vm.CollectFull()
	report := statsReport{
		BytesAllocated: vm.BytesAllocated(),
		GC:             vm.Stats(),
	}

	leak := vm.Close()
	report.ResidualBytes = leak.ResidualBytes

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		return
	}

	fmt.Printf("bytes allocated before close: %d\n", report.BytesAllocated)
	fmt.Printf("nursery:    %d objects, %d bytes\n", report.GC.NurseryObjects, report.GC.NurseryBytes)
	fmt.Printf("modified buffer:  %d\n", report.GC.ModifiedBuffer)
	fmt.Printf("decrement buffer: %d\n", report.GC.DecrementBuffer)
	fmt.Printf("cycle roots:      %d\n", report.GC.CycleRoots)
	fmt.Printf("pending finalize: %d\n", report.GC.PendingFinalize)
	fmt.Println(leak.String())
}
