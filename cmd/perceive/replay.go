package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/timeutil"
	"github.com/fieldsense/perception/internal/world"
)

// replay decodes JSON-lines frames from in and feeds them to p in stream
// order. It returns the number of frames applied.
func replay(ctx context.Context, in io.Reader, p *pipeline, pacer *timeutil.Pacer) (int, error) {
	dec := json.NewDecoder(in)
	read, applied := 0, 0
	for {
		var f world.Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return applied, nil
			}
			return applied, fmt.Errorf("decode frame %d: %w", read+1, err)
		}
		read++
		if err := pacer.Wait(ctx); err != nil {
			return applied, err
		}
		if err := p.HandleFrame(f); err != nil {
			monitoring.Opsf("frame %d: %v, skipping", read, err)
			continue
		}
		applied++
	}
}
