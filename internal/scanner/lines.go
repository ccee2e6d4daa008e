// Package scanner reads the candidate set from an input stream.
package scanner

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
)

const (
	// initialBufferSize is the starting line buffer.
	initialBufferSize = 64 * 1024
	// MaxLineSize is the longest candidate line accepted.
	MaxLineSize = 16 * 1024 * 1024
)

// ReadLines reads newline-separated candidates from r. Line terminators
// ("\n" or "\r\n") are stripped. A final line without a terminator is kept;
// an empty input yields no candidates.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialBufferSize), MaxLineSize)

	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, suberrors.IOError("failed to read candidates", err).
			WithDetail("lines_read", strconv.Itoa(len(lines)))
	}

	slog.Debug("candidates_read", slog.Int("count", len(lines)))
	return lines, nil
}
