package mediafetch

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	calls   int32
	failURL string
}

func (s *stubFetcher) FetchMedia(url string) ([]byte, error) {
	atomic.AddInt32(&s.calls, 1)
	if url == s.failURL {
		return nil, fmt.Errorf("fetch %s: connection reset", url)
	}
	return []byte("data:" + url), nil
}

func TestFetchAllPreservesJobOrder(t *testing.T) {
	fetcher := &stubFetcher{}
	pool := NewPool(3, fetcher, nil)

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{Index: i, URL: fmt.Sprintf("https://cdn.example/photo%d.jpg", i)}
	}

	results := pool.FetchAll(jobs)
	require.Len(t, results, len(jobs))

	for i, result := range results {
		require.NoError(t, result.Err)
		assert.Equal(t, jobs[i], result.Job)
		assert.Equal(t, []byte("data:"+jobs[i].URL), result.Data)
	}
	assert.Equal(t, int32(len(jobs)), fetcher.calls)
}

func TestFetchAllReportsErrorsPerJob(t *testing.T) {
	fetcher := &stubFetcher{failURL: "https://cdn.example/bad.jpg"}
	pool := NewPool(2, fetcher, nil)

	results := pool.FetchAll([]Job{
		{Index: 0, URL: "https://cdn.example/good.jpg"},
		{Index: 1, URL: "https://cdn.example/bad.jpg"},
	})

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Data)
}

func TestFetchAllEmpty(t *testing.T) {
	pool := NewPool(4, &stubFetcher{}, nil)
	assert.Empty(t, pool.FetchAll(nil))
}

func TestPoolClampsWorkerCount(t *testing.T) {
	fetcher := &stubFetcher{}
	pool := NewPool(0, fetcher, nil)

	results := pool.FetchAll([]Job{{Index: 0, URL: "https://cdn.example/one.jpg"}})
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}
