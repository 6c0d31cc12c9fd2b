package openaichat

import (
	"bufio"
	"io"
	"strings"
)

// sseScannerBufferSize is the maximum accepted SSE line length. Upstream
// providers occasionally emit very large single-line chunks for tool
// arguments.
const sseScannerBufferSize = 2 << 20

// newSSEScanner returns a line scanner sized for event-stream payloads.
func newSSEScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), sseScannerBufferSize)
	return scanner
}

// sseDataLine extracts the payload of a `data:` line. Event-name lines,
// comments, and blank separators yield ok=false.
func sseDataLine(line string) (string, bool) {
	data, found := strings.CutPrefix(line, "data:")
	if !found {
		return "", false
	}
	return strings.TrimSpace(data), true
}
