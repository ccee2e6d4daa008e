// Package logging configures slog for subseq.
//
// Standard output carries results only, so logs never go there. By default a
// text handler writes warnings and errors to stderr. With --debug, JSON logs at
// debug level are also written to a size-rotated file under ~/.subseq/logs/.
package logging
