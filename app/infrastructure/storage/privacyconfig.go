package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark47B/browser-data-service/app/domain/repository"
	"github.com/mark47B/browser-data-service/app/infrastructure/metrics"
)

// maxConfigSize bounds the decoded privacy config body.
const maxConfigSize = 16 << 20

type PrivacyConfigDownloader struct {
	client *http.Client
}

func NewPrivacyConfigDownloader(timeout time.Duration) repository.PrivacyConfigDownloader {
	return &PrivacyConfigDownloader{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the remote config. Bodies served gzipped, either by a .gz
// url or a gzip Content-Encoding the transport did not already undo, are
// decompressed.
func (d *PrivacyConfigDownloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("download").Inc()
		return nil, fmt.Errorf("http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("download").Inc()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()
	metrics.PrivacyConfigDownloadDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.ErrorsTotal.WithLabelValues("download").Inc()
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(url, ".gz") || resp.Header.Get("Content-Encoding") == "gzip" {
		gzr, err := gzip.NewReader(resp.Body)
		if err != nil {
			metrics.ErrorsTotal.WithLabelValues("download").Inc()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gzr.Close()
		body = gzr
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(body, maxConfigSize+1))
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("download").Inc()
		return nil, fmt.Errorf("read body: %w", err)
	}
	if n > maxConfigSize {
		metrics.ErrorsTotal.WithLabelValues("download").Inc()
		return nil, fmt.Errorf("privacy config larger than %d bytes", maxConfigSize)
	}
	return buf.Bytes(), nil
}
