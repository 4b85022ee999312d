package nnue

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DefaultEvalFile is the name advertised as the EvalFile option default.
const DefaultEvalFile = "nn-000000000000.nnue"

// evalFileRe is the accepted shape of a network file name.
var evalFileRe = regexp.MustCompile(`^nn-[0-9a-z]{12}\.nnue$`)

// embeddedNetwork can be populated at build time (go:embed in a build
// wrapper, or a generated file); an empty slice means "no embedded net".
var embeddedNetwork []byte

// ValidEvalFileName reports whether name matches nn-[0-9a-z]{12}.nnue.
func ValidEvalFileName(name string) bool {
	return evalFileRe.MatchString(filepath.Base(name))
}

// Load resolves and loads the network, trying in order: the embedded blob,
// the file in the current directory, the file next to the engine binary.
// The first source that produces a working session wins.
func Load(evalFile string) (*Network, error) {
	var tried []string

	if len(embeddedNetwork) > 0 {
		if n, err := newNetworkFromBytes(embeddedNetwork, "<embedded>"); err == nil {
			return n, nil
		} else {
			tried = append(tried, fmt.Sprintf("<embedded>: %v", err))
		}
	}

	candidates := []string{evalFile}
	if !filepath.IsAbs(evalFile) {
		if exe, err := os.Executable(); err == nil {
			candidates = append(candidates, filepath.Join(filepath.Dir(exe), filepath.Base(evalFile)))
		}
	}

	for _, path := range candidates {
		blob, err := os.ReadFile(path)
		if err != nil {
			tried = append(tried, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		n, err := newNetworkFromBytes(blob, path)
		if err != nil {
			tried = append(tried, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		return n, nil
	}

	return nil, fmt.Errorf("no loadable network, tried %v", tried)
}
