package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// IsURL reports whether ref names an http(s) resource.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Open returns a reader over ref, which is a local path or an http(s) URL.
// Gzip content is decompressed transparently.
func (c *Client) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("source reference is required")
	}

	var raw io.ReadCloser
	if IsURL(ref) {
		body, err := c.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		raw = io.NopCloser(bytes.NewReader(body))
	} else {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", ref, err)
		}
		raw = f
	}

	return maybeGunzip(raw)
}

// Open opens ref with a default client.
func Open(ctx context.Context, ref string, opts ...Option) (io.ReadCloser, error) {
	return NewClient(opts...).Open(ctx, ref)
}

type gzipReadCloser struct {
	*gzip.Reader
	underlying io.Closer
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	if err := g.underlying.Close(); err != nil {
		return err
	}
	return gzErr
}

type bufferedReadCloser struct {
	*bufio.Reader
	io.Closer
}

// maybeGunzip sniffs the gzip magic bytes rather than trusting the name.
func maybeGunzip(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	magic, err := br.Peek(2)
	if err != nil || magic[0] != 0x1f || magic[1] != 0x8b {
		return bufferedReadCloser{Reader: br, Closer: rc}, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	return &gzipReadCloser{Reader: zr, underlying: rc}, nil
}
