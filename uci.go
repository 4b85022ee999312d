package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"goosecore/engine"
	gm "goosecore/goosemg"
	"goosecore/nnue"
)

const (
	engineName   = "GooseCore"
	engineAuthor = "Goose"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	u := &uciState{
		eng: engine.NewEngine(),
		log: log,
	}
	u.eng.Log = log
	u.resetPosition()
	log.Debug().Str("name", engineName).Msg("engine starting")
	u.loop(os.Stdin)
}

type uciState struct {
	eng     *engine.Engine
	log     zerolog.Logger
	board   gm.Board
	history []uint64
}

func (u *uciState) resetPosition() {
	board, _ := gm.ParseFEN(gm.FENStartPos)
	u.board = *board
	u.history = u.history[:0]
	u.history = append(u.history, u.board.Hash())
}

func (u *uciState) loop(in *os.File) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1<<16), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)

		switch strings.ToLower(tokens[0]) {
		case "uci":
			u.cmdUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.eng.WaitForSearchFinished()
			u.eng.NewGame()
			u.resetPosition()
		case "position":
			u.eng.WaitForSearchFinished()
			u.cmdPosition(tokens[1:])
		case "go":
			u.cmdGo(tokens[1:])
		case "stop":
			u.eng.Stop()
		case "ponderhit":
			u.eng.PonderHit()
		case "setoption":
			u.cmdSetOption(line)
		case "eval":
			engine.Evaluation(&u.board, true)
		case "quit":
			u.eng.Stop()
			u.eng.WaitForSearchFinished()
			return
		default:
			fmt.Println("info string Unknown command:", tokens[0])
		}
	}
}

func (u *uciState) cmdUCI() {
	opts := u.eng.Options
	fmt.Printf("id name %s\n", engineName)
	fmt.Printf("id author %s\n", engineAuthor)
	fmt.Printf("option name Threads type spin default %d min 1 max 512\n", opts.Threads)
	fmt.Printf("option name Hash type spin default %d min 1 max 131072\n", opts.HashMB)
	fmt.Printf("option name MultiPV type spin default %d min 1 max 256\n", opts.MultiPV)
	fmt.Println("option name Ponder type check default false")
	fmt.Println("option name Use NNUE type check default false")
	fmt.Printf("option name EvalFile type string default %s\n", opts.EvalFile)
	fmt.Println("option name UCI_Chess960 type check default false")
	fmt.Println("uciok")
}

func (u *uciState) cmdPosition(tokens []string) {
	if len(tokens) == 0 {
		fmt.Println("info string Malformed position command")
		return
	}

	movesIdx := -1
	for i, t := range tokens {
		if t == "moves" {
			movesIdx = i
			break
		}
	}

	switch tokens[0] {
	case "startpos":
		u.resetPosition()
	case "fen":
		end := movesIdx
		if end == -1 {
			end = len(tokens)
		}
		fen := strings.Join(tokens[1:end], " ")
		board, err := gm.ParseFEN(fen)
		if err != nil {
			fmt.Println("info string Malformed FEN:", err)
			return
		}
		u.board = *board
		u.history = u.history[:0]
		u.history = append(u.history, u.board.Hash())
	default:
		fmt.Println("info string Malformed position command:", tokens[0])
		return
	}

	if movesIdx == -1 {
		return
	}
	for _, ms := range tokens[movesIdx+1:] {
		move, ok := u.findLegalMove(ms)
		if !ok {
			fmt.Println("info string Illegal move ignored:", ms)
			return
		}
		if ok2, _ := u.board.MakeMove(move); !ok2 {
			fmt.Println("info string Illegal move ignored:", ms)
			return
		}
		if u.board.HalfmoveClock() == 0 {
			// Irreversible move: nothing before it can repeat.
			u.history = u.history[:0]
		}
		u.history = append(u.history, u.board.Hash())
	}
}

// findLegalMove resolves a coordinate string against the legal move list,
// which settles promotion letters and castling encodings in one go.
func (u *uciState) findLegalMove(ms string) (gm.Move, bool) {
	ms = strings.ToLower(strings.TrimSpace(ms))
	for _, m := range u.board.GenerateLegalMoves() {
		if m.String() == ms {
			return m, true
		}
	}
	return 0, false
}

func (u *uciState) cmdGo(tokens []string) {
	var limits engine.Limits
	var wtime, btime, winc, binc, movetime, movestogo, depth, mate int
	var nodes uint64

	for i := 0; i < len(tokens); i++ {
		next := func() (int, bool) {
			if i+1 >= len(tokens) {
				fmt.Println("info string Malformed go option:", tokens[i])
				return 0, false
			}
			i++
			v, err := strconv.Atoi(tokens[i])
			if err != nil {
				fmt.Println("info string Malformed go option value:", tokens[i])
				return 0, false
			}
			return v, true
		}

		switch tokens[i] {
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		case "depth":
			if v, ok := next(); ok {
				depth = v
			}
		case "nodes":
			if v, ok := next(); ok {
				nodes = uint64(v)
			}
		case "movetime":
			if v, ok := next(); ok {
				movetime = v
			}
		case "wtime":
			if v, ok := next(); ok {
				wtime = v
			}
		case "btime":
			if v, ok := next(); ok {
				btime = v
			}
		case "winc":
			if v, ok := next(); ok {
				winc = v
			}
		case "binc":
			if v, ok := next(); ok {
				binc = v
			}
		case "movestogo":
			if v, ok := next(); ok {
				movestogo = v
			}
		case "mate":
			if v, ok := next(); ok {
				mate = v
			}
		case "perft":
			if v, ok := next(); ok {
				u.runPerft(v)
			}
			return
		case "searchmoves":
			for i+1 < len(tokens) {
				m, ok := u.findLegalMove(tokens[i+1])
				if !ok {
					break
				}
				limits.SearchMoves = append(limits.SearchMoves, m)
				i++
			}
		default:
			fmt.Println("info string Unknown go option:", tokens[i])
		}
	}

	limits.Depth = depth
	limits.Nodes = nodes
	limits.Mate = mate
	limits.MoveTime = time.Duration(movetime) * time.Millisecond
	limits.WTime = time.Duration(wtime) * time.Millisecond
	limits.BTime = time.Duration(btime) * time.Millisecond
	limits.WInc = time.Duration(winc) * time.Millisecond
	limits.BInc = time.Duration(binc) * time.Millisecond
	limits.MovesToGo = movestogo

	u.eng.WaitForSearchFinished()
	u.eng.StartSearch(&u.board, u.history, limits)
}

func (u *uciState) runPerft(depth int) {
	start := time.Now()
	nodes := gm.Perft(&u.board, depth)
	elapsed := time.Since(start)
	fmt.Printf("info string perft depth %d time %d\n", depth, elapsed.Milliseconds())
	fmt.Printf("Nodes searched: %d\n", nodes)
}

func (u *uciState) cmdSetOption(line string) {
	// setoption name <Name...> [value <Value...>]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "setoption"))
	if !strings.HasPrefix(rest, "name ") {
		fmt.Println("info string Malformed setoption command")
		return
	}
	rest = strings.TrimPrefix(rest, "name ")
	name, value := rest, ""
	if idx := strings.Index(rest, " value "); idx != -1 {
		name = rest[:idx]
		value = strings.TrimSpace(rest[idx+len(" value "):])
	}
	name = strings.TrimSpace(name)

	u.eng.WaitForSearchFinished()

	switch strings.ToLower(name) {
	case "threads":
		if v, err := strconv.Atoi(value); err == nil && v >= 1 {
			u.eng.SetThreads(v)
		} else {
			fmt.Println("info string Invalid Threads value:", value)
		}
	case "hash":
		if v, err := strconv.Atoi(value); err == nil && v >= 1 {
			u.eng.ResizeTT(v)
		} else {
			fmt.Println("info string Invalid Hash value:", value)
		}
	case "multipv":
		if v, err := strconv.Atoi(value); err == nil && v >= 1 {
			u.eng.Options.MultiPV = v
		} else {
			fmt.Println("info string Invalid MultiPV value:", value)
		}
	case "ponder":
		u.eng.Options.Ponder = strings.EqualFold(value, "true")
	case "use nnue":
		u.eng.Options.UseNNUE = strings.EqualFold(value, "true")
		if u.eng.Options.UseNNUE {
			u.loadNetwork()
		}
	case "evalfile":
		if !nnue.ValidEvalFileName(value) {
			fmt.Println("info string Invalid EvalFile name:", value)
			return
		}
		u.eng.Options.EvalFile = value
		if u.eng.Options.UseNNUE {
			u.loadNetwork()
		}
	case "uci_chess960":
		u.eng.Options.Chess960 = strings.EqualFold(value, "true")
		engine.Chess960 = u.eng.Options.Chess960
	default:
		fmt.Println("info string Unknown option:", name)
	}
}

// loadNetwork resolves the EvalFile. A missing network with Use NNUE
// enabled is a fatal configuration error.
func (u *uciState) loadNetwork() {
	net, err := nnue.Load(u.eng.Options.EvalFile)
	if err != nil {
		u.log.Err(err).Msg("NNUE network load failed")
		fmt.Println("info string ERROR: NNUE evaluation requested but no network is loadable.")
		fmt.Println("info string ERROR: The network file", u.eng.Options.EvalFile, "was not found or is corrupted.")
		fmt.Println("info string ERROR: The engine looked in the embedded data, the working directory and the binary directory.")
		fmt.Println("info string ERROR: Download the correct network or set EvalFile to a valid nn-[0-9a-z]{12}.nnue file.")
		fmt.Println("info string ERROR: The engine will now exit.")
		os.Exit(1)
	}
	u.eng.Network = net
	fmt.Println("info string NNUE network loaded from", net.Name)
}
