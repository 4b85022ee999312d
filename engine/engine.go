package engine

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	gm "goosecore/goosemg"
	"goosecore/nnue"
)

// Options is the closed set of UCI-settable knobs.
type Options struct {
	Threads  int
	HashMB   int
	MultiPV  int
	Ponder   bool
	UseNNUE  bool
	EvalFile string
	Chess960 bool
}

// DefaultOptions mirrors the defaults advertised on "uci".
func DefaultOptions() Options {
	return Options{
		Threads:  1,
		HashMB:   64,
		MultiPV:  1,
		EvalFile: nnue.DefaultEvalFile,
	}
}

// Limits describes one "go" command.
type Limits struct {
	Depth       int
	Nodes       uint64
	MoveTime    time.Duration
	Infinite    bool
	Ponder      bool
	WTime       time.Duration
	BTime       time.Duration
	WInc        time.Duration
	BInc        time.Duration
	MovesToGo   int
	Mate        int
	SearchMoves []gm.Move
}

// UseClock reports whether the search is governed by wall time.
func (l *Limits) UseClock() bool {
	return !l.Infinite && l.Depth == 0 && l.Nodes == 0 && l.Mate == 0
}

// Engine owns the process-lived search state: transposition table, worker
// pool, options and time manager. It is handed to the searchers as a plain
// reference; nothing in here is a package global.
type Engine struct {
	TT      *TransTable
	Time    TimeManager
	Options Options
	Network *nnue.Network

	Out io.Writer
	Log zerolog.Logger

	workers []*Searcher
	limits  Limits

	stop            atomic.Bool
	ponder          atomic.Bool
	stopOnPonderhit atomic.Bool

	wg       *errgroup.Group
	searchMu sync.Mutex
}

// NewEngine builds an engine with default options and a single worker.
func NewEngine() *Engine {
	opts := DefaultOptions()
	e := &Engine{
		TT:      NewTransTable(opts.HashMB),
		Options: opts,
		Out:     os.Stdout,
		Log:     zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}
	e.SetThreads(opts.Threads)
	return e
}

// SetThreads resizes the worker pool. The main searcher is workers[0].
func (e *Engine) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	e.Options.Threads = n
	e.workers = make([]*Searcher, n)
	for i := range e.workers {
		e.workers[i] = newSearcher(i, e)
	}
}

// ResizeTT reallocates the shared table to the given size in MB.
func (e *Engine) ResizeTT(mb int) {
	e.Options.HashMB = mb
	e.TT.Resize(mb)
}

// NewGame resets everything that should not leak between games.
func (e *Engine) NewGame() {
	e.TT.Clear()
	ClearPawnHash()
	for _, w := range e.workers {
		w.hist.Clear()
		w.killer.clear()
	}
}

// Nodes sums the node counters of all workers with relaxed loads.
func (e *Engine) Nodes() uint64 {
	var n uint64
	for _, w := range e.workers {
		n += atomic.LoadUint64(&w.nodes)
	}
	return n
}

// Stopped reports the shared cancellation flag.
func (e *Engine) Stopped() bool { return e.stop.Load() }

// Stop requests all workers to unwind.
func (e *Engine) Stop() { e.stop.Store(true) }

// PonderHit converts a ponder search into a normal timed one. If the
// budget is already blown the search stops outright.
func (e *Engine) PonderHit() {
	e.ponder.Store(false)
	if e.stopOnPonderhit.Load() {
		e.Stop()
	}
}

// StartSearch launches the worker pool on the given position and returns
// immediately. history holds the Zobrist keys of the game so far, for
// repetition detection across the root. The bestmove line is printed by
// the main worker when every thread has unwound.
func (e *Engine) StartSearch(board *gm.Board, history []uint64, limits Limits) {
	e.searchMu.Lock()
	e.limits = limits
	e.stop.Store(false)
	e.ponder.Store(limits.Ponder)
	e.stopOnPonderhit.Store(false)
	e.TT.NewSearch()

	phase := GetPiecePhase(board)
	if limits.MoveTime > 0 {
		e.Time.StartFixed(limits.MoveTime)
	} else if limits.UseClock() {
		remaining, inc := limits.WTime, limits.WInc
		if !board.Wtomove {
			remaining, inc = limits.BTime, limits.BInc
		}
		e.Time.Start(remaining, inc, limits.MovesToGo, phase)
	}

	for _, w := range e.workers {
		w.prepare(board, history, limits)
	}

	g := &errgroup.Group{}
	e.wg = g
	for _, w := range e.workers {
		w := w
		g.Go(func() error {
			w.iterate()
			return nil
		})
	}
	go func() {
		g.Wait()
		e.finishSearch()
		e.searchMu.Unlock()
	}()
}

// WaitForSearchFinished blocks until every worker has unwound.
func (e *Engine) WaitForSearchFinished() {
	e.searchMu.Lock()
	e.searchMu.Unlock()
}

// bestWorker picks the thread whose result wins: deepest completed root,
// highest score, with mate scores always taking precedence.
func (e *Engine) bestWorker() *Searcher {
	best := e.workers[0]
	for _, w := range e.workers[1:] {
		if len(w.rootMoves) == 0 || w.completedDepth == 0 {
			continue
		}
		bs, ws := best.rootMoves[0].Score, w.rootMoves[0].Score
		if ws > bs && (ws >= ValueMateInMaxPly || w.completedDepth >= best.completedDepth) {
			best = w
		}
	}
	return best
}

func (e *Engine) finishSearch() {
	if len(e.workers[0].rootMoves) == 0 {
		// No legal moves: mate or stalemate at the root.
		writeLine(e.Out, "bestmove (none)")
		return
	}
	w := e.bestWorker()
	best := w.rootMoves[0]
	if len(best.PV) > 1 {
		writeLine(e.Out, "bestmove "+best.PV[0].String()+" ponder "+best.PV[1].String())
	} else {
		writeLine(e.Out, "bestmove "+best.Move.String())
	}
}

func writeLine(out io.Writer, s string) {
	io.WriteString(out, s+"\n")
}
