package engine

// NNUE blending thresholds. Lopsided positions stay on the classical
// evaluator, which already understands "up a rook"; balanced positions are
// where the network earns its keep.
const (
	nnueClassicalOnly  = 682
	nnueBlendThreshold = 176
)

// evaluate is the static evaluation entry point for the search. With a
// network loaded it blends the two evaluators by how decided the classical
// score already is.
func (s *Searcher) evaluate() int32 {
	e := s.eng
	classical := Evaluation(&s.board, false)
	if e.Network == nil || !e.Options.UseNNUE {
		return classical
	}

	a := abs32(classical)
	if a > nnueClassicalOnly {
		return classical
	}
	nn := e.Network.Evaluate(&s.board)
	if a > nnueBlendThreshold {
		return (classical + nn) / 2
	}
	return nn
}
