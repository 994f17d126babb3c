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

func runGC(args []string) {
	fs := flag.NewFlagSet("gc", flag.ExitOnError)
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
	defer vm.Close()

	before := vm.Stats()
	vm.CollectFull()
	after := vm.Stats()

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(struct {
			Before gc.Stats `json:"before"`
			After  gc.Stats `json:"after"`
		}{before, after})
		return
	}

	fmt.Printf("before: nursery=%d(%db) modified=%d decrement=%d cycleRoots=%d\n",
		before.NurseryObjects, before.NurseryBytes, before.ModifiedBuffer, before.DecrementBuffer, before.CycleRoots)
	fmt.Printf("after:  nursery=%d(%db) modified=%d decrement=%d cycleRoots=%d\n",
		after.NurseryObjects, after.NurseryBytes, after.ModifiedBuffer, after.DecrementBuffer, after.CycleRoots)
}
