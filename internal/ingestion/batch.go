package ingestion

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds the number of files read at once.
const DefaultBatchConcurrency = 4

// Document is one ingested source of a batch.
type Document struct {
	Path     string
	Text     string
	Metadata *Metadata
}

// IngestFiles reads every path concurrently. Documents come back in the
// order of paths; the first error cancels the rest.
func IngestFiles(ctx context.Context, paths []string, concurrency int) ([]Document, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	docs := make([]Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, meta, err := IngestFromFile(path)
			if err != nil {
				return fmt.Errorf("batch item %d: %w", i, err)
			}
			docs[i] = Document{Path: path, Text: text, Metadata: meta}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
