// Package output renders ranked matches as text lines.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
	"github.com/Aman-CERP/subseq/internal/search"
)

// DefaultSeparator separates the positions prefix from the text.
const DefaultSeparator = ":"

// Options selects the rendering modes. Marking and positions combine freely.
type Options struct {
	// Before and After wrap each run of matched runes. Marking is disabled
	// when both are empty.
	Before string
	After  string

	// Positions prefixes each line with the matched indices.
	Positions bool

	// Separator follows the positions prefix.
	Separator string

	// Limit caps the number of lines written. 0 means no cap.
	Limit int
}

// Marking reports whether highlight delimiters are configured.
func (o Options) Marking() bool {
	return o.Before != "" || o.After != ""
}

// Writer renders ranked lists.
type Writer struct {
	out  io.Writer
	opts Options
}

// New creates a new output Writer.
func New(out io.Writer, opts Options) *Writer {
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	return &Writer{
		out:  out,
		opts: opts,
	}
}

// Line renders one record without the trailing newline.
func (w *Writer) Line(r search.Record) string {
	var sb strings.Builder
	if w.opts.Positions {
		sb.WriteString(FormatPositions(r.Result.Positions))
		sb.WriteString(w.opts.Separator)
	}
	if w.opts.Marking() {
		sb.WriteString(Mark(r.Text, r.Result.Positions, w.opts.Before, w.opts.After))
	} else {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// WriteAll writes one line per record, best first, honouring Limit.
func (w *Writer) WriteAll(list search.RankedList) error {
	if w.opts.Limit > 0 && len(list) > w.opts.Limit {
		list = list[:w.opts.Limit]
	}

	bw := bufio.NewWriter(w.out)
	for _, r := range list {
		if _, err := bw.WriteString(w.Line(r)); err != nil {
			return suberrors.New(suberrors.ErrCodeOutputWrite, "failed to write results", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return suberrors.New(suberrors.ErrCodeOutputWrite, "failed to write results", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return suberrors.New(suberrors.ErrCodeOutputWrite, "failed to write results", err)
	}
	return nil
}

// FormatPositions joins positions with commas.
func FormatPositions(positions []int) string {
	var sb strings.Builder
	for i, p := range positions {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(p))
	}
	return sb.String()
}

// Mark wraps each maximal run of consecutive matched rune positions in text
// with before and after. Positions must be strictly increasing.
func Mark(text string, positions []int, before, after string) string {
	if len(positions) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(positions)*(len(before)+len(after)))

	// Runes are copied as raw bytes so invalid UTF-8 passes through intact.
	next, open, idx := 0, false, 0
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		matched := next < len(positions) && positions[next] == idx
		if matched && !open {
			sb.WriteString(before)
			open = true
		} else if !matched && open {
			sb.WriteString(after)
			open = false
		}
		sb.WriteString(text[i : i+size])
		if matched {
			next++
		}
		i += size
		idx++
	}
	if open {
		sb.WriteString(after)
	}
	return sb.String()
}
