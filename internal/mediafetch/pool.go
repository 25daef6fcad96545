// Package mediafetch retrieves media attachments referenced by records.
//
// Fetches within one page are independent and idempotent, so the pool runs
// them on a bounded set of workers. Results are keyed by the submitting
// index, which keeps the projected output deterministic regardless of
// scheduling.
package mediafetch

import (
	"sync"
	"time"

	"geofetch/pkg/logger"
)

// Fetcher retrieves the raw bytes behind a media URL.
type Fetcher interface {
	FetchMedia(url string) ([]byte, error)
}

// Job is a single media fetch task.
type Job struct {
	Index int
	URL   string
}

// Result pairs a job with its outcome.
type Result struct {
	Job      Job
	Data     []byte
	Err      error
	Duration time.Duration
}

// Pool fetches batches of media URLs concurrently.
type Pool struct {
	workers int
	fetcher Fetcher
	logger  logger.Logger
}

// NewPool creates a fetch pool with the given worker count.
func NewPool(workers int, fetcher Fetcher, log logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Pool{
		workers: workers,
		fetcher: fetcher,
		logger:  log,
	}
}

// FetchAll runs every job and returns results in job order: results[i]
// corresponds to jobs[i] no matter which worker handled it.
func (p *Pool) FetchAll(jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				results[i] = p.fetch(jobs[i])
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)
	wg.Wait()

	return results
}

func (p *Pool) fetch(job Job) Result {
	start := time.Now()
	data, err := p.fetcher.FetchMedia(job.URL)
	result := Result{
		Job:      job,
		Data:     data,
		Err:      err,
		Duration: time.Since(start),
	}

	if err != nil {
		p.logger.WithError(err).WithField("url", job.URL).Error("media fetch failed")
		return result
	}

	p.logger.DebugWithFields("media fetched", map[string]interface{}{
		"url":         job.URL,
		"size":        len(data),
		"duration_ms": float64(result.Duration.Microseconds()) / 1000,
	})
	return result
}
