package classification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observability/metrics"
)

// Downloader defaults.
const (
	DefaultDownloadTimeout = 2 * time.Minute
	DefaultDownloadTTL     = time.Hour
)

// maxDownloadSize caps a taxonomy download; the largest published lists are a few tens of MB.
const maxDownloadSize = 256 << 20

// DownloaderConfig configures a Downloader.
type DownloaderConfig struct {
	Timeout           time.Duration // per download; 0 uses DefaultDownloadTimeout
	CacheTTL          time.Duration // reuse of a finished download; 0 uses DefaultDownloadTTL
	RequestsPerMinute int           // 0 disables rate limiting
	TempDir           string        // "" uses os.TempDir()
	HTTPClient        *http.Client  // nil uses a client with Timeout
	Metrics           metrics.Recorder
}

// Downloader fetches taxonomy CSV files into temporary files. Concurrent fetches of the
// same URL share one request and finished downloads are reused until they expire.
type Downloader struct {
	client  *http.Client
	timeout time.Duration
	tempDir string
	limiter *rate.Limiter
	group   singleflight.Group
	files   *cache.Cache
	metrics metrics.Recorder
	log     logger.Logger

	closeOnce sync.Once
}

// NewDownloader creates a Downloader.
func NewDownloader(cfg DownloaderConfig, log logger.Logger) *Downloader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultDownloadTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultDownloadTTL
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	// No janitor: expired entries are ignored by Get and their files removed on Close.
	files := cache.New(cfg.CacheTTL, 0)
	files.OnEvicted(func(_ string, v any) {
		if path, ok := v.(string); ok {
			_ = os.Remove(path)
		}
	})

	return &Downloader{
		client:  client,
		timeout: cfg.Timeout,
		tempDir: cfg.TempDir,
		limiter: limiter,
		files:   files,
		metrics: metrics.OrNop(cfg.Metrics),
		log:     logger.OrDiscard(log).Module("classification").Module("download"),
	}
}

// Fetch downloads src.URL and returns the path of a local copy. The file stays valid until
// the cache entry expires or the Downloader is closed; callers must not remove it.
func (d *Downloader) Fetch(ctx context.Context, src Source) (string, error) {
	if src.URL == "" {
		return "", errors.Newf("source %q has no download URL", src.Name).
			Component("classification").
			Category(errors.CategoryValidation).
			Build()
	}

	if path, ok := d.cached(src.URL); ok {
		d.log.Debug("taxonomy download cache hit", logger.String("url", src.URL))
		d.metrics.RecordOperation(metrics.OpDownloadCacheHit, metrics.StatusSuccess)
		return path, nil
	}

	ch := d.group.DoChan(src.URL, func() (any, error) {
		if path, ok := d.cached(src.URL); ok {
			return path, nil
		}
		// the shared download outlives any single caller's cancellation
		start := time.Now()
		path, err := d.download(context.WithoutCancel(ctx), src)
		d.metrics.RecordDuration(metrics.OpDownload, time.Since(start).Seconds())
		if err != nil {
			d.metrics.RecordOperation(metrics.OpDownload, metrics.StatusError)
			d.metrics.RecordError(metrics.OpDownload, string(errors.CategoryOf(err)))
			return "", err
		}
		d.metrics.RecordOperation(metrics.OpDownload, metrics.StatusSuccess)
		d.files.SetDefault(src.URL, path)
		return path, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", errors.New(ctx.Err()).
			Component("classification").
			Category(errors.CategoryCancellation).
			Context("url", src.URL).
			Build()
	}
}

// Close removes every downloaded file.
func (d *Downloader) Close() error {
	d.closeOnce.Do(func() {
		for key := range d.files.Items() {
			d.files.Delete(key)
		}
		d.files.DeleteExpired()
	})
	return nil
}

func (d *Downloader) cached(url string) (string, bool) {
	v, ok := d.files.Get(url)
	if !ok {
		return "", false
	}
	path, ok := v.(string)
	if !ok {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		d.files.Delete(url)
		return "", false
	}
	return path, true
}

func (d *Downloader) download(ctx context.Context, src Source) (string, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return "", errors.New(err).
				Component("classification").
				Category(errors.CategoryTimeout).
				Context("operation", "rate_limiter_wait").
				Context("url", src.URL).
				Build()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, http.NoBody)
	if err != nil {
		return "", errors.New(err).
			Component("classification").
			Category(errors.CategoryNetwork).
			Context("url", src.URL).
			Build()
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", errors.New(err).
			Component("classification").
			Category(errors.CategoryNetwork).
			NetworkContext(src.URL, d.timeout).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("download failed with status %d", resp.StatusCode).
			Component("classification").
			Category(errors.CategoryNetwork).
			Context("url", src.URL).
			Context("status_code", resp.StatusCode).
			Build()
	}

	if err := os.MkdirAll(d.tempDir, 0o755); err != nil {
		return "", fileError(err, "create-temp-dir", d.tempDir)
	}
	path := filepath.Join(d.tempDir, fmt.Sprintf("classification-%s.csv", uuid.NewString()))
	f, err := os.Create(path) //nolint:gosec // name is generated
	if err != nil {
		return "", fileError(err, "create-temp-file", path)
	}

	n, err := io.Copy(f, io.LimitReader(resp.Body, maxDownloadSize+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n > maxDownloadSize {
		err = fmt.Errorf("download exceeds %d bytes", maxDownloadSize)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", errors.New(err).
			Component("classification").
			Category(errors.CategoryNetwork).
			Context("url", src.URL).
			Build()
	}

	if sizes, ok := d.metrics.(metrics.SizeRecorder); ok {
		sizes.RecordDownloadBytes(n)
	}
	d.log.Info("taxonomy downloaded",
		logger.String("source", src.Name),
		logger.String("url", src.URL),
		logger.Int64("bytes", n),
		logger.Duration("elapsed", time.Since(start)))
	return path, nil
}

func fileError(err error, operation, path string) error {
	return errors.New(err).
		Component("classification").
		Category(errors.CategoryFileIO).
		Context("operation", operation).
		Context("path", path).
		Build()
}
