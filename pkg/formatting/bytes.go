// Package formatting holds the parsing helpers shared by config and the
// engine: byte sizes from config strings, tolerant JSON from oracle replies,
// and UTF-8 safe truncation.
package formatting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned for byte sizes ParseBytes cannot read.
var ErrInvalidSize = errors.New("invalid byte size")

// multipliers are base-1024, longest suffix first so "KB" wins over "B".
var multipliers = []struct {
	suffix string
	factor float64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseBytes reads sizes such as "1500", "1500B", "8 KB", or "1mb".
// Units are case-insensitive and base-1024; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSize)
	}

	factor := 1.0
	for _, m := range multipliers {
		if num, ok := strings.CutSuffix(s, m.suffix); ok {
			s, factor = strings.TrimSpace(num), m.factor
			break
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, raw)
	}
	return int64(value * factor), nil
}
