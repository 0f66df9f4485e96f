package warnings

import (
	"fmt"
	"strings"

	"github.com/conn-castle/mage-console/internal/messages"
)

// NoiseMode selects which warnings are shown to the operator.
// The install log always receives every warning.
type NoiseMode string

const (
	NoiseModeDefault NoiseMode = "default"
	// NoiseModeReduce hides suppressible warnings that are not critical.
	NoiseModeReduce NoiseMode = "reduce"
)

// ParseNoiseMode reads a --warnings value. Empty means default.
func ParseNoiseMode(value string) (NoiseMode, error) {
	switch mode := NoiseMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case "", NoiseModeDefault:
		return NoiseModeDefault, nil
	case NoiseModeReduce:
		return mode, nil
	default:
		return "", fmt.Errorf(messages.WarningsNoiseModeInvalidFmt, value, NoiseModeDefault, NoiseModeReduce)
	}
}

// Filter returns the warnings visible under mode, preserving order.
func Filter(items []Warning, mode NoiseMode) []Warning {
	if mode != NoiseModeReduce {
		return items
	}
	var kept []Warning
	for _, w := range items {
		if w.Suppressible() {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}

// Suppressible reports whether reduce mode hides w. Critical warnings never hide.
func (w Warning) Suppressible() bool {
	return w.NoiseSuppressible && w.severityOrDefault() != SeverityCritical
}
