package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archiveServer struct {
	*httptest.Server
	calls atomic.Int32
}

// newArchiveServer serves the given pages by path and 404 for anything else
func newArchiveServer(t *testing.T, pages map[string]string) *archiveServer {
	t.Helper()

	s := &archiveServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestLoader(srv *archiveServer, cache Cache, metrics Recorder) *Loader {
	return NewLoader(LoaderConfig{
		Client: newTestClient(),
		Primary: Source{
			Name:        "primary",
			URLTemplate: srv.URL + "/year/%d",
			PerYear:     true,
		},
		Fallback: Source{
			Name:        "fallback",
			URLTemplate: srv.URL + "/current",
		},
		Cache:   cache,
		Metrics: metrics,
	})
}

type fetchRecord struct {
	source  string
	outcome string
}

type recordingMetrics struct {
	mu      sync.Mutex
	fetches []fetchRecord
	loaded  []int
}

func (m *recordingMetrics) RecordArchiveFetch(_ context.Context, source, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, fetchRecord{source: source, outcome: outcome})
}

func (m *recordingMetrics) RecordDrawsLoaded(_ context.Context, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = append(m.loaded, count)
}

func TestLoader_LoadDraws_SkipsMissingYearsAndDedupes(t *testing.T) {
	t.Parallel()

	srv := newArchiveServer(t, map[string]string{
		"/year/2021": tableHTML([]int{1, 2, 3, 4, 5, 6}, []int{10, 20, 30, 40, 50, 60}),
		"/year/2023": tableHTML([]int{6, 5, 4, 3, 2, 1}, []int{7, 17, 27, 37, 47, 57}),
	})
	metrics := &recordingMetrics{}
	loader := newTestLoader(srv, nil, metrics)

	draws, err := loader.LoadDraws(context.Background(), 2021, 2023)
	require.NoError(t, err)
	assert.Equal(t, [][6]int{
		{1, 2, 3, 4, 5, 6},
		{10, 20, 30, 40, 50, 60},
		{7, 17, 27, 37, 47, 57},
	}, numbersOf(draws))
	assert.Equal(t, 2021, draws[0].Year)
	assert.Equal(t, 2023, draws[2].Year)
	assert.Equal(t, "primary", draws[0].Source)

	assert.Equal(t, []fetchRecord{
		{"primary", OutcomeOK},
		{"primary", OutcomeFailed},
		{"primary", OutcomeOK},
	}, metrics.fetches)
	assert.Equal(t, []int{3}, metrics.loaded)
}

func TestLoader_LoadDraws_SkipsUnparseableYear(t *testing.T) {
	t.Parallel()

	srv := newArchiveServer(t, map[string]string{
		"/year/2021": tableHTML(),
		"/year/2022": tableHTML([]int{11, 22, 33, 44, 55, 66}),
	})
	metrics := &recordingMetrics{}
	loader := newTestLoader(srv, nil, metrics)

	draws, err := loader.LoadDraws(context.Background(), 2021, 2022)
	require.NoError(t, err)
	assert.Equal(t, [][6]int{{11, 22, 33, 44, 55, 66}}, numbersOf(draws))
	assert.Contains(t, metrics.fetches, fetchRecord{"primary", OutcomeRejected})
}

func TestLoader_LoadDraws_UsesFallback(t *testing.T) {
	t.Parallel()

	srv := newArchiveServer(t, map[string]string{
		"/current": tableHTML([]int{3, 13, 23, 33, 43, 53}),
	})
	loader := newTestLoader(srv, nil, nil)

	draws, err := loader.LoadDraws(context.Background(), 2020, 2021)
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, "fallback", draws[0].Source)
	assert.Equal(t, time.Now().Year(), draws[0].Year)
}

func TestLoader_LoadDraws_NoData(t *testing.T) {
	t.Parallel()

	srv := newArchiveServer(t, map[string]string{})
	loader := newTestLoader(srv, nil, nil)

	_, err := loader.LoadDraws(context.Background(), 2020, 2021)
	assert.ErrorIs(t, err, ErrNoArchiveData)
	assert.Equal(t, int32(3), srv.calls.Load())
}

func TestLoader_LoadDraws_InvalidRange(t *testing.T) {
	t.Parallel()

	srv := newArchiveServer(t, map[string]string{})
	loader := newTestLoader(srv, nil, nil)

	_, err := loader.LoadDraws(context.Background(), 2024, 2020)
	assert.Error(t, err)
	assert.Zero(t, srv.calls.Load())
}

func TestLoader_LoadDraws_Cancelled(t *testing.T) {
	t.Parallel()

	srv := newArchiveServer(t, map[string]string{
		"/year/2021": tableHTML([]int{1, 2, 3, 4, 5, 6}),
	})
	loader := newTestLoader(srv, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.LoadDraws(ctx, 2021, 2021)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_LoadDraws_ServesFromCache(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cache := NewRedisCache(mr.Addr())
	defer cache.Close()

	srv := newArchiveServer(t, map[string]string{
		"/year/2019": tableHTML([]int{1, 2, 3, 4, 5, 6}),
	})
	metrics := &recordingMetrics{}
	loader := newTestLoader(srv, cache, metrics)

	first, err := loader.LoadDraws(context.Background(), 2019, 2019)
	require.NoError(t, err)
	second, err := loader.LoadDraws(context.Background(), 2019, 2019)
	require.NoError(t, err)

	assert.Equal(t, numbersOf(first), numbersOf(second))
	assert.Equal(t, int32(1), srv.calls.Load())
	assert.Equal(t, []fetchRecord{
		{"primary", OutcomeOK},
		{"primary", OutcomeCached},
	}, metrics.fetches)
	assert.Equal(t, 12*time.Hour, mr.TTL("lottogen:archive:primary:2019"))
}

func TestLoader_LoadDraws_DoesNotCacheRejectedPayload(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cache := NewRedisCache(mr.Addr())
	defer cache.Close()

	var page atomic.Pointer[string]
	blocked := tableHTML()
	page.Store(&blocked)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/year/2019" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(*page.Load()))
	}))
	defer srv.Close()

	loader := newTestLoader(&archiveServer{Server: srv}, cache, nil)

	_, err := loader.LoadDraws(context.Background(), 2019, 2019)
	require.ErrorIs(t, err, ErrNoArchiveData)
	assert.False(t, mr.Exists("lottogen:archive:primary:2019"))

	recovered := tableHTML([]int{4, 14, 24, 34, 44, 54})
	page.Store(&recovered)

	draws, err := loader.LoadDraws(context.Background(), 2019, 2019)
	require.NoError(t, err)
	assert.Equal(t, [][6]int{{4, 14, 24, 34, 44, 54}}, numbersOf(draws))
	assert.True(t, mr.Exists("lottogen:archive:primary:2019"))
	assert.Equal(t, 12*time.Hour, mr.TTL("lottogen:archive:primary:2019"))

	// fallback 404 on the first load, then one fetch per load of the fixed year
	assert.Equal(t, int32(3), calls.Load())
}

func TestLoader_TTLFor(t *testing.T) {
	t.Parallel()

	loader := NewLoader(LoaderConfig{Client: newTestClient(), CacheTTL: 24 * time.Hour})
	loader.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, 24*time.Hour, loader.ttlFor(Lottologia, 2023))
	assert.Equal(t, time.Hour, loader.ttlFor(Lottologia, 2024))
	assert.Equal(t, time.Hour, loader.ttlFor(TuttoSuperEnalotto, 2023))
}
