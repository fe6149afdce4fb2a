package cast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJavaLayout(t *testing.T) {
	tests := []struct {
		pattern  string
		expected string
	}{
		{"dd-MM-yyyy", "02-01-2006"},
		{"yyyy-MM-dd", "2006-01-02"},
		{"MMM d, yyyy", "Jan 2, 2006"},
		{"EEEE 'the' d", "Monday the 2"},
		{"2006/01/02", "2006/01/02"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			require.Equal(t, tt.expected, JavaLayout(tt.pattern))
		})
	}
}
