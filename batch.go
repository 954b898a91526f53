package storage2md

import (
	"context"
	"sync"
	"time"
)

// BatchResult is the outcome of one document of a batch. Exactly one of
// Result and Err is set.
type BatchResult struct {
	Name     string
	Result   *Result
	Err      error
	Duration time.Duration
}

// ConvertBatch converts inputs with a bounded pool of workers and returns
// one BatchResult per input, in input order. A failing document does not
// stop the others. Once ctx is done, documents not yet started are
// reported with ctx.Err() and never converted.
func (c *Converter) ConvertBatch(ctx context.Context, inputs []Input, workers int) []BatchResult {
	if len(inputs) == 0 {
		return nil
	}

	concurrency := min(ResolveWorkers(workers), len(inputs))
	results := make([]BatchResult, len(inputs))
	jobs := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.convertOne(ctx, inputs[idx])
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func (c *Converter) convertOne(ctx context.Context, input Input) BatchResult {
	start := time.Now()
	res, err := c.Convert(ctx, input)
	if err != nil {
		c.logger.Warn("document failed", "document", input.Name, "error", err)
	}
	return BatchResult{
		Name:     input.Name,
		Result:   res,
		Err:      err,
		Duration: time.Since(start),
	}
}

// BatchSummary counts the outcomes of a batch.
type BatchSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
	Assets    int
	Bytes     int
}

// Summarize totals a batch.
func Summarize(results []BatchResult) BatchSummary {
	var s BatchSummary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.Warnings += len(r.Result.Warnings)
		s.Assets += len(r.Result.Assets)
		s.Bytes += len(r.Result.Markdown)
	}
	return s
}
