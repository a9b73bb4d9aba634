/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/obstack/pkg/config"
	"github.com/mchmarny/obstack/pkg/errors"
)

// Downloader fetches remote content over HTTP.
type Downloader interface {
	// Fetch downloads url to the dest file path.
	Fetch(ctx context.Context, url, dest string) error

	// FetchString downloads url and returns the body as a trimmed string.
	// Used for small payloads such as the external IP lookup.
	FetchString(ctx context.Context, url string) (string, error)
}

// HTTPDownloader is the net/http-backed Downloader.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader creates a Downloader with connection and header timeouts
// tuned for release-archive downloads. The total request timeout is carried
// by the caller's context.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   config.HTTPConnectTimeout,
					KeepAlive: config.HTTPKeepAlive,
				}).DialContext,
				TLSHandshakeTimeout:   config.HTTPTLSHandshakeTimeout,
				ResponseHeaderTimeout: config.HTTPResponseHeaderTimeout,
				IdleConnTimeout:       config.HTTPIdleConnTimeout,
			},
		},
	}
}

// Fetch implements Downloader.
func (d *HTTPDownloader) Fetch(ctx context.Context, url, dest string) error {
	slog.Info("downloading", "url", url)

	body, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create download directory", err)
	}

	file, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create download file", err)
	}

	n, err := io.Copy(file, body)
	if err != nil {
		file.Close()
		return errors.WrapWithContext(errors.ErrCodeCommand, "download interrupted", err,
			map[string]any{"url": url})
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to finalize download file", err)
	}

	slog.Debug("download complete", "dest", dest, "bytes", n)
	return nil
}

// FetchString implements Downloader.
func (d *HTTPDownloader) FetchString(ctx context.Context, url string) (string, error) {
	body, err := d.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeCommand, "failed to read response body", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (d *HTTPDownloader) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to build request", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeCommand, "request failed", err,
			map[string]any{"url": url})
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.NewWithContext(errors.ErrCodeCommand,
			fmt.Sprintf("unexpected response status: %s", resp.Status),
			map[string]any{"url": url})
	}
	return resp.Body, nil
}
