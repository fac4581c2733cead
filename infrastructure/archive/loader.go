package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"lottogen/domain/entities"
)

// ErrNoArchiveData is returned when neither the primary nor the fallback source yields draws
var ErrNoArchiveData = errors.New("no archive data available")

// Recorder receives archive metrics
type Recorder interface {
	RecordArchiveFetch(ctx context.Context, source, outcome string, duration time.Duration)
	RecordDrawsLoaded(ctx context.Context, count int)
}

const (
	OutcomeOK       = "ok"
	OutcomeCached   = "cached"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// LoaderConfig configures a Loader. Cache and Metrics are optional.
type LoaderConfig struct {
	Client   *Client
	Primary  Source
	Fallback Source
	Cache    Cache
	CacheTTL time.Duration
	Metrics  Recorder
}

// Loader reads historical draws from the public archives
type Loader struct {
	client   *Client
	primary  Source
	fallback Source
	cache    Cache
	cacheTTL time.Duration
	metrics  Recorder
	now      func() time.Time
}

// NewLoader creates a loader, defaulting to Lottologia with TuttoSuperEnalotto as fallback
func NewLoader(cfg LoaderConfig) *Loader {
	if cfg.Primary.Name == "" {
		cfg.Primary = Lottologia
	}
	if cfg.Fallback.Name == "" {
		cfg.Fallback = TuttoSuperEnalotto
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 12 * time.Hour
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopRecorder{}
	}
	return &Loader{
		client:   cfg.Client,
		primary:  cfg.Primary,
		fallback: cfg.Fallback,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		metrics:  cfg.Metrics,
		now:      time.Now,
	}
}

// LoadDraws reads every year in [fromYear, toYear] from the primary source.
// Years that cannot be downloaded or parsed are skipped. When no year yields
// draws the fallback source is tried once. Duplicate draws are dropped.
func (l *Loader) LoadDraws(ctx context.Context, fromYear, toYear int) ([]*entities.Draw, error) {
	if fromYear > toYear {
		return nil, fmt.Errorf("invalid year range %d-%d", fromYear, toYear)
	}

	var draws []*entities.Draw
	for year := fromYear; year <= toYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		yearDraws, err := l.loadYear(ctx, l.primary, year)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithFields(log.Fields{
				"source": l.primary.Name,
				"year":   year,
			}).Warn("Archive year not available")
			continue
		}

		log.WithFields(log.Fields{
			"source": l.primary.Name,
			"year":   year,
			"draws":  len(yearDraws),
		}).Info("Archive year read")
		draws = append(draws, yearDraws...)
	}

	if len(draws) == 0 {
		log.WithField("source", l.fallback.Name).Warn("Primary archive returned no draws, trying fallback")

		fallbackDraws, err := l.loadYear(ctx, l.fallback, l.now().Year())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoArchiveData, err)
		}
		draws = fallbackDraws
	}

	draws = entities.DedupeDraws(draws)
	l.metrics.RecordDrawsLoaded(ctx, len(draws))
	return draws, nil
}

// loadYear returns the draws of one archive document. Payloads are cached only
// once they normalize into draws, so a block page or unknown layout is fetched
// again on the next load.
func (l *Loader) loadYear(ctx context.Context, source Source, year int) ([]*entities.Draw, error) {
	data, cached, err := l.fetch(ctx, source, year)
	if err != nil {
		return nil, err
	}

	rows, err := DecodeTable(data)
	if err != nil {
		l.metrics.RecordArchiveFetch(ctx, source.Name, OutcomeRejected, 0)
		return nil, err
	}

	draws, err := NormalizeDraws(rows, year, source.Name)
	if err != nil {
		l.metrics.RecordArchiveFetch(ctx, source.Name, OutcomeRejected, 0)
		return nil, err
	}

	if l.cache != nil && !cached {
		key := source.cacheKey(year)
		if err := l.cache.Set(ctx, key, data, l.ttlFor(source, year)); err != nil {
			log.WithError(err).WithField("key", key).Warn("Archive cache write failed")
		}
	}
	return draws, nil
}

// fetch returns the payload from the cache when present, otherwise from the source
func (l *Loader) fetch(ctx context.Context, source Source, year int) ([]byte, bool, error) {
	if l.cache != nil {
		key := source.cacheKey(year)
		data, ok, err := l.cache.Get(ctx, key)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("Archive cache read failed")
		} else if ok {
			l.metrics.RecordArchiveFetch(ctx, source.Name, OutcomeCached, 0)
			return data, true, nil
		}
	}

	start := time.Now()
	data, err := l.client.Fetch(ctx, source.URL(year), source.Referer)
	if err != nil {
		l.metrics.RecordArchiveFetch(ctx, source.Name, OutcomeFailed, time.Since(start))
		return nil, false, err
	}
	l.metrics.RecordArchiveFetch(ctx, source.Name, OutcomeOK, time.Since(start))
	return data, false, nil
}

// ttlFor keeps the running year short-lived since it still receives draws
func (l *Loader) ttlFor(source Source, year int) time.Duration {
	if !source.PerYear || year >= l.now().Year() {
		return min(l.cacheTTL, time.Hour)
	}
	return l.cacheTTL
}

type noopRecorder struct{}

func (noopRecorder) RecordArchiveFetch(context.Context, string, string, time.Duration) {}
func (noopRecorder) RecordDrawsLoaded(context.Context, int) {}
