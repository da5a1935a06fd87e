package store

import (
	"strings"
	"testing"

	"freightcarbon/internal/schema"
)

func TestSnapshot(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{
			name:     "nil becomes sql null",
			input:    nil,
			expected: "null",
		},
		{
			name:     "request snapshot",
			input:    schema.Request{Mode: schema.ModeAir, WeightKg: 250, OriginAirport: "LHR"},
			expected: `"LHR"`,
		},
		{
			name:     "plain map",
			input:    map[string]any{"tot": 5.0},
			expected: `{"tot":5}`,
		},
		{
			name:     "unmarshalable value falls back to its string form",
			input:    map[string]any{"ch": make(chan int)},
			expected: `"map[`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := string(snapshot(tc.input))
			if !strings.Contains(got, tc.expected) {
				t.Errorf("expected snapshot to contain %q, got %s", tc.expected, got)
			}
		})
	}
}
