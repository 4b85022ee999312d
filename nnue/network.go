// Package nnue adapts an externally-trained network (an ONNX artifact) to
// the engine's evaluator interface. The network file is an opaque blob; the
// engine only asks for a centipawn score of the side to move.
package nnue

import (
	"fmt"
	"math/bits"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	gm "goosecore/goosemg"
)

const (
	// 12 piece planes of 64 squares, side-to-move relative.
	numFeatures = 768

	// Network output is a win-probability-ish scalar; this scale maps it
	// to centipawns.
	outputScale = 400
)

// Network wraps one loaded inference session. Weights are read-only after
// load and shared between threads; the session's bound tensors are not, so
// Evaluate serializes on a mutex.
type Network struct {
	session *ort.AdvancedSession
	input   []float32
	output  []float32

	mu sync.Mutex

	// Name is the resolved source of the weights, for "info string" output.
	Name string
}

var ortInitOnce sync.Once
var ortInitErr error

func initRuntime() error {
	ortInitOnce.Do(func() {
		if !ort.IsInitialized() {
			ortInitErr = ort.InitializeEnvironment()
		}
	})
	return ortInitErr
}

// newNetworkFromBytes builds a session over an in-memory ONNX blob.
func newNetworkFromBytes(blob []byte, name string) (*Network, error) {
	if err := initRuntime(); err != nil {
		return nil, fmt.Errorf("onnxruntime init: %w", err)
	}

	input := make([]float32, numFeatures)
	output := make([]float32, 1)

	inShape := ort.NewShape(1, numFeatures)
	outShape := ort.NewShape(1, 1)
	inTensor, err := ort.NewTensor(inShape, input)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	outTensor, err := ort.NewTensor(outShape, output)
	if err != nil {
		inTensor.Destroy()
		return nil, fmt.Errorf("output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSessionWithONNXData(blob,
		[]string{"features"}, []string{"value"},
		[]ort.ArbitraryTensor{inTensor}, []ort.ArbitraryTensor{outTensor}, nil)
	if err != nil {
		inTensor.Destroy()
		outTensor.Destroy()
		return nil, fmt.Errorf("session: %w", err)
	}

	return &Network{
		session: session,
		input:   input,
		output:  output,
		Name:    name,
	}, nil
}

// Close releases the session.
func (n *Network) Close() {
	if n.session != nil {
		n.session.Destroy()
		n.session = nil
	}
}

// Evaluate runs inference for the position and returns a centipawn score
// from the side to move's point of view.
func (n *Network) Evaluate(b *gm.Board) int32 {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := range n.input {
		n.input[i] = 0
	}
	fillFeatures(b, n.input)

	if err := n.session.Run(); err != nil {
		// Inference failure mid-search is unrecoverable in any useful way;
		// a neutral score keeps the search sound.
		return 0
	}
	return int32(n.output[0] * outputScale)
}

// fillFeatures sets the 12x64 one-hot piece planes, oriented so plane 0-5
// is always the side to move.
func fillFeatures(b *gm.Board, input []float32) {
	sides := [2]*gm.Bitboards{&b.White, &b.Black}
	usIdx := 0
	if !b.Wtomove {
		usIdx = 1
	}

	for i, side := range [2]int{usIdx, 1 - usIdx} {
		bbs := sides[side]
		planes := [6]uint64{bbs.Pawns, bbs.Knights, bbs.Bishops, bbs.Rooks, bbs.Queens, bbs.Kings}
		for p, bb := range planes {
			for x := bb; x != 0; x &= x - 1 {
				sq := bits.TrailingZeros64(x)
				if !b.Wtomove {
					// Mirror ranks for black to move.
					sq ^= 56
				}
				input[(i*6+p)*64+sq] = 1
			}
		}
	}
}
