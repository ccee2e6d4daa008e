package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
	"github.com/Aman-CERP/subseq/internal/match"
)

// ErrNilDependency is returned when a required dependency is nil.
var ErrNilDependency = errors.New("nil dependency")

// cancelCheckInterval is how many candidates a worker scores between
// checks of the group context.
const cancelCheckInterval = 256

// Engine scores and ranks candidate sets.
type Engine struct {
	model  *match.BonusModel
	config EngineConfig

	// score is swapped in tests to inject worker failures.
	score func(s *match.Scorer, candidate string) match.Result
}

// NewEngine creates an engine over an immutable bonus model.
func NewEngine(model *match.BonusModel, cfg EngineConfig) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("bonus model: %w", ErrNilDependency)
	}
	if cfg.Threads < 0 {
		return nil, suberrors.New(suberrors.ErrCodeInvalidThreads,
			fmt.Sprintf("threads must not be negative, got %d", cfg.Threads), nil)
	}
	return &Engine{
		model:  model,
		config: cfg,
		score:  (*match.Scorer).Score,
	}, nil
}

// Search scores every candidate against query and returns the ranked matches.
func (e *Engine) Search(ctx context.Context, query string, candidates []string) (RankedList, error) {
	start := time.Now()

	records, err := e.ScoreAll(ctx, query, candidates)
	if err != nil {
		return nil, err
	}
	ranked := Rank(records)

	slog.Debug("search_complete",
		slog.Int("candidates", len(candidates)),
		slog.Int("matched", len(ranked)),
		slog.Int("threads", e.config.Threads),
		slog.Duration("elapsed", time.Since(start)))

	return ranked, nil
}

// ScoreAll scores every candidate and returns one record per candidate in
// input order, matched or not.
func (e *Engine) ScoreAll(ctx context.Context, query string, candidates []string) ([]Record, error) {
	records := make([]Record, len(candidates))

	if e.config.Threads == 0 {
		for _, chunk := range Partition(candidates, 1) {
			if err := e.scoreChunk(ctx, query, chunk, records[chunk.Start:chunk.Start+len(chunk.Items)]); err != nil {
				return nil, err
			}
		}
		return records, nil
	}

	chunks := Partition(candidates, e.config.Threads)
	slog.Debug("search_dispatch",
		slog.Int("chunks", len(chunks)),
		slog.Int("threads", e.config.Threads))

	g, gctx := errgroup.WithContext(ctx)
	for _, chunk := range chunks {
		chunk := chunk
		out :=records[chunk.Start : chunk.Start+len(chunk.Items)]
		g.Go(func() error {
			return e.scoreChunk(gctx, query, chunk, out)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// scoreChunk scores one chunk into out. A panic in the scorer is reported as
// a worker failure so the whole run aborts instead of emitting bad positions.
func (e *Engine) scoreChunk(ctx context.Context, query string, chunk Chunk, out []Record) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			cause, ok := rec.(error)
			if !ok {
				cause = fmt.Errorf("%v", rec)
			}
			err = suberrors.New(suberrors.ErrCodeWorkerFailed,
				fmt.Sprintf("worker for candidates %d..%d failed: %v",
					chunk.Start, chunk.Start+len(chunk.Items)-1, cause), cause).
				WithDetail("chunk_start", strconv.Itoa(chunk.Start))
			slog.Error("worker_failed", slog.Any("error", suberrors.FormatForLog(err)))
		}
	}()

	scorer := match.NewScorer(e.model, query, match.WithCache(e.config.CacheSize))
	for i, text := range chunk.Items {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		out[i] = Record{
			Index:  chunk.Start + i,
			Text:   text,
			Length: utf8.RuneCountInString(text),
			Result: e.score(scorer, text),
		}
	}
	return nil
}
