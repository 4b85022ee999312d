package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"goosecore/engine"
	gm "goosecore/goosemg"
)

// searchbench runs fixed-depth searches over a position for profiling and
// regression timing, outside the UCI loop.
func main() {
	depthFlag := flag.Int("depth", 10, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	threadsFlag := flag.Int("threads", 1, "worker threads")
	hashFlag := flag.Int("hash", 64, "transposition table size in MB")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	fen := gm.FENStartPos
	if *fenFlag != "" {
		fen = *fenFlag
	}
	board, err := gm.ParseFEN(fen)
	if err != nil {
		log.Fatalf("ParseFEN: %v", err)
	}

	e := engine.NewEngine()
	e.SetThreads(*threadsFlag)
	e.ResizeTT(*hashFlag)

	history := []uint64{board.Hash()}
	for i := 0; i < *repeatFlag; i++ {
		start := time.Now()
		e.StartSearch(board, history, engine.Limits{Depth: *depthFlag})
		e.WaitForSearchFinished()
		elapsed := time.Since(start)
		nodes := e.Nodes()
		nps := uint64(0)
		if ms := elapsed.Milliseconds(); ms > 0 {
			nps = nodes * 1000 / uint64(ms)
		}
		fmt.Printf("run %d: depth %d nodes %d time %dms nps %d\n",
			i+1, *depthFlag, nodes, elapsed.Milliseconds(), nps)
	}
}
