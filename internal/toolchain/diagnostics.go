package toolchain

import "strings"

// errorMarkers are the substrings that make a toolchain stderr line worth
// surfacing to the caller. Anything else is linker noise.
var errorMarkers = []string{
	"error:",
	"undefined reference",
	"multiple definition",
	"cannot find",
	"No such file",
	"fatal:",
}

// maxDiagnosticLines bounds the filtered output so a broken HAL build does
// not flood the caller.
const maxDiagnosticLines = 15

// maxRawFallback bounds the raw stderr returned when no recognized marker
// matched anything.
const maxRawFallback = 1000

// FilterDiagnostics reduces a raw toolchain stderr stream to the lines a
// caller can act on. collect2 driver chatter is dropped unless it is all
// there is; when no marker matches at all, the head of the raw stream is
// returned so the failure is never silent.
func FilterDiagnostics(stderr string) string {
	var matched []string
	for _, line := range strings.Split(stderr, "\n") {
		for _, marker := range errorMarkers {
			if strings.Contains(line, marker) {
				matched = append(matched, line)
				break
			}
		}
	}

	withoutCollect2 := matched[:0:0]
	for _, line := range matched {
		if !strings.Contains(line, "collect2:") {
			withoutCollect2 = append(withoutCollect2, line)
		}
	}
	if len(withoutCollect2) > 0 {
		matched = withoutCollect2
	}

	if len(matched) == 0 {
		if len(stderr) > maxRawFallback {
			return stderr[:maxRawFallback]
		}
		return stderr
	}
	if len(matched) > maxDiagnosticLines {
		matched = matched[:maxDiagnosticLines]
	}
	return strings.Join(matched, "\n")
}
