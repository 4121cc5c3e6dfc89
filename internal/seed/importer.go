package seed

import (
	"context"
	"fmt"
	"sync"

	"freshguard/internal/form"
	"freshguard/internal/model"

	"github.com/rs/zerolog"
)

// Result summarises an import.
type Result struct {
	Files   int
	Records int
	Created []model.Item
	Failed  int
}

// Importer loads seed files and creates their items through the item store.
type Importer struct {
	loader Loader
	items  form.ItemSaver
	logger zerolog.Logger
}

// NewImporter creates an importer.
func NewImporter(loader Loader, items form.ItemSaver, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		items:  items,
		logger: logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Import loads every file concurrently, then creates the records in the
// order the files were given. Any load failure aborts the import before
// anything is created; a record that fails to save is counted and skipped.
func (im *Importer) Import(ctx context.Context, paths []string) (Result, error) {
	batches, err := im.loadAll(ctx, paths)
	if err != nil {
		return Result{}, err
	}

	res := Result{Files: len(paths), Created: []model.Item{}}
	for i, records := range batches {
		for n, rec := range records {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.Records++

			f := form.NewItemForm(im.items, nil)
			f.Draft = rec.Draft()

			saved, err := f.Submit(ctx)
			if err != nil {
				res.Failed++
				im.logger.Warn().
					Err(err).
					Str("file", paths[i]).
					Int("record", n+1).
					Str("name", rec.Name).
					Msg("failed to import record")
				continue
			}
			res.Created = append(res.Created, saved)
		}
	}

	im.logger.Info().
		Int("files", res.Files).
		Int("records", res.Records).
		Int("created", len(res.Created)).
		Int("failed", res.Failed).
		Msg("seed import finished")

	return res, nil
}

func (im *Importer) loadAll(ctx context.Context, paths []string) ([][]Record, error) {
	type loadResult struct {
		index   int
		records []Record
		err     error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			records, err := im.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, records: records, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	batches := make([][]Record, 0, len(paths))
	for i, result := range results {
		if result.err != nil {
			im.logger.Error().
				Err(result.err).
				Str("file", paths[i]).
				Msg("failed to load seed file")
			return nil, fmt.Errorf("failed to load seed file %s: %w", paths[i], result.err)
		}
		batches = append(batches, result.records)
	}

	return batches, nil
}
