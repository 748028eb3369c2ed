package wallhaven

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
)

// FileName returns the local name for an image fetched at t from rawURL:
// wall_<YYYYmmdd_HHMMSS><ext>, where ext comes from the URL path and
// defaults to .jpg.
func FileName(t time.Time, rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := path.Ext(p)
	if ext == "" {
		ext = constants.DefaultExtension
	}
	return constants.FilePrefix + t.Format(constants.TimestampLayout) + ext
}

// Download streams the image at rawURL into dir and returns the local path.
// A failed transfer leaves whatever was written on disk.
func (c *Client) Download(ctx context.Context, rawURL, dir string) (string, error) {
	if rawURL == "" {
		return "", errors.ErrMissingURL
	}

	filePath := filepath.Join(dir, FileName(c.now(), rawURL))
	c.logger.Debug("Downloading wallpaper", "url", rawURL, "destination", filePath)

	resp, err := c.get(ctx, c.download, rawURL, nil, false)
	if err != nil {
		return "", fmt.Errorf("failed to get wallpaper: %w", err)
	}
	defer resp.Body.Close()

	if size := resp.ContentLength; size > 0 {
		c.logger.Info("Starting download", "size", humanize.Bytes(uint64(size)))
	}

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	// Hide ReadFrom so CopyBuffer really uses the fixed-size buffer.
	buf := make([]byte, constants.DownloadChunkSize)
	written, err := io.CopyBuffer(struct{ io.Writer }{out}, resp.Body, buf)
	if err != nil {
		out.Close()
		return "", fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}

	c.logger.Info("Download completed", "path", filePath, "written", humanize.Bytes(uint64(written)))
	return filePath, nil
}
