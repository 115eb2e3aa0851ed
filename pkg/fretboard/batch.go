package fretboard

import (
	"context"
	"fmt"

	"github.com/james-see/fretpath/pkg/music"
	"golang.org/x/sync/errgroup"
)

// TabRequest is one independent TabSequence run for TabAll
type TabRequest struct {
	Pitches []music.PitchClass
	Start   *Coordinate
	Span    int
	Seed    uint64
}

func (r TabRequest) options() []Option {
	opts := []Option{WithSpan(r.Span), WithSeed(r.Seed)}
	if r.Start != nil {
		opts = append(opts, WithStart(*r.Start))
	}
	return opts
}

// TabAll runs every request against the same board using at most limit
// goroutines (limit <= 0 means no limit). Results are in request order. The
// first failure cancels the remaining requests and is returned with its index
func TabAll(ctx context.Context, b *Fretboard, reqs []TabRequest, limit int) ([][]Coordinate, error) {
	results := make([][]Coordinate, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tab, err := b.TabSequence(req.Pitches, req.options()...)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = tab
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
