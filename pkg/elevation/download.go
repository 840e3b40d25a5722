package elevation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"

	"github.com/hikepath/routepipe/pkg/core"
)

// primaryURL returns the gzip-compressed tile location: <base>/{N|S}DD/{tile}.hgt.gz.
func primaryURL(base string, id TileID) string {
	name := id.Name()
	return fmt.Sprintf("%s/%s/%s.hgt.gz", base, name[:3], name)
}

// fallbackURL returns the uncompressed tile location: <base>/{tile}.hgt.
func fallbackURL(base string, id TileID) string {
	return fmt.Sprintf("%s/%s.hgt", base, id.Name())
}

// DownloadTile fetches one HGT tile's raw decompressed bytes, trying the
// gzip-compressed primary source first and the uncompressed fallback
// second. Both legs retry per core.TileDownloadRetryOptions (4 attempts,
// 2/4/8/16s, 4xx non-retryable). The caller is responsible for persisting
// the raw bytes to the disk cache and decoding them into a Grid.
func DownloadTile(ctx context.Context, primaryBase, fallbackBase string, id TileID) ([]byte, error) {
	raw, err := fetchAndDecompress(ctx, primaryURL(primaryBase, id), primaryLimiter, true)
	if err != nil {
		raw, err = fetchAndDecompress(ctx, fallbackURL(fallbackBase, id), fallbackLimiter, false)
		if err != nil {
			return nil, core.NewError(core.ErrDownloadFailed,
				fmt.Sprintf("failed to download tile %s from primary and fallback sources", id.Name())).
				WithDetail(err.Error())
		}
	}

	if len(raw) != TileBytes {
		return nil, core.NewError(core.ErrInvalidTileData,
			fmt.Sprintf("tile %s has %d bytes, expected %d", id.Name(), len(raw), TileBytes))
	}
	return raw, nil
}

func fetchAndDecompress(ctx context.Context, url string, limiter interface {
	Wait(context.Context) error
}, gzipped bool) ([]byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := core.WithRetry(ctx, req, httpClient, core.TileDownloadRetryOptions)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if !gzipped {
		return body, nil
	}
	return decompressGzip(body)
}

// decompressGzip tries the standard gzip reader first (via klauspost's
// drop-in, faster implementation) and falls back to a manual header/trailer
// parse plus raw deflate if the library rejects the stream outright.
func decompressGzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err == nil {
		defer zr.Close()
		out, readErr := io.ReadAll(zr)
		if readErr == nil {
			return out, nil
		}
	}
	return InflateManual(data)
}
