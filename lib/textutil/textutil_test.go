package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripLegacyMarkers(t *testing.T) {
	require.Equal(t, "Fight Club", StripLegacyMarkers("¬Fight Club"))
	require.Equal(t, "Fight Club", StripLegacyMarkers("Â¬Fight Club"))
	require.Equal(t, "Der Prozess", StripLegacyMarkers("  ¬Der Prozess "))
	require.Equal(t, "no marker", StripLegacyMarkers("no marker"))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("Blu-Ray Disc", []string{"blu-ray"}))
	require.False(t, MatchName("Buch", []string{"blu-ray", "dvd"}))
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a \n\tb   c "))
}
