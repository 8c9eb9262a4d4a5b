package toolchain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterDiagnostics_KeepsErrorLinesDropsNoise(t *testing.T) {
	t.Parallel()

	stderr := strings.Join([]string{
		"arm-none-eabi-gcc: some banner",
		"main.c: In function 'main':",
		"main.c:3:5: error: 'foo' undeclared (first use in this function)",
		"main.c:3:5: note: each undeclared identifier is reported only once",
		"/usr/bin/ld: main.o: in function `main':",
		"main.c:(.text+0x4): undefined reference to `HAL_Init'",
		"collect2: error: ld returned 1 exit status",
	}, "\n")

	got := FilterDiagnostics(stderr)

	require.Contains(t, got, "error: 'foo' undeclared")
	require.Contains(t, got, "undefined reference to `HAL_Init'")
	require.NotContains(t, got, "collect2:")
	require.NotContains(t, got, "note: each undeclared")
	require.NotContains(t, got, "banner")
}

func TestFilterDiagnostics_Collect2OnlyIsKept(t *testing.T) {
	t.Parallel()

	stderr := "collect2: error: ld returned 1 exit status\n"

	got := FilterDiagnostics(stderr)

	require.Contains(t, got, "collect2: error")
}

func TestFilterDiagnostics_CapsLineCount(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "main.c:1:1: error: something")
	}

	got := FilterDiagnostics(strings.Join(lines, "\n"))

	require.Len(t, strings.Split(got, "\n"), maxDiagnosticLines)
}

func TestFilterDiagnostics_NoMarkersFallsBackToRawHead(t *testing.T) {
	t.Parallel()

	raw := strings.Repeat("x", 3000)

	got := FilterDiagnostics(raw)

	require.Len(t, got, maxRawFallback)
}

func TestFilterDiagnostics_ShortUnrecognizedPassesThrough(t *testing.T) {
	t.Parallel()

	raw := "something odd happened"

	require.Equal(t, raw, FilterDiagnostics(raw))
}
