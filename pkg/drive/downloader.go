package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/google"

	"jewel-backoffice-be/internal/pkg/logger"
)

// driveReadScope grants read access to files shared with the service
// account.
const driveReadScope = "https://www.googleapis.com/auth/drive.readonly"

// maxImageBytes caps downloads at Shopify's upload ceiling.
const maxImageBytes = 20 << 20

// Image is one downloaded file plus its detected type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Downloader fetches images from Drive share links. An authenticated
// downloader uses the Drive v3 API, an unauthenticated one falls back
// to the public direct download endpoint.
type Downloader struct {
	client        *http.Client
	log           logger.ILogger
	authenticated bool
}

// NewDownloader builds an unauthenticated downloader for publicly
// shared files.
func NewDownloader(log logger.ILogger) *Downloader {
	return &Downloader{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// NewServiceAccountDownloader builds a downloader that authenticates
// with a service account JSON key, for files shared with the account
// rather than the public.
func NewServiceAccountDownloader(ctx context.Context, credentialsJSON []byte, log logger.ILogger) (*Downloader, error) {
	cfg, err := google.JWTConfigFromJSON(credentialsJSON, driveReadScope)
	if err != nil {
		return nil, fmt.Errorf("drive credentials: %w", err)
	}
	client := cfg.Client(ctx)
	client.Timeout = 30 * time.Second
	return &Downloader{client: client, log: log, authenticated: true}, nil
}

// Download fetches the image behind a Drive share link or any plain
// image URL.
func (d *Downloader) Download(ctx context.Context, rawURL string) (*Image, error) {
	target := rawURL
	if IsDriveURL(rawURL) {
		fileID := ExtractFileID(rawURL)
		if fileID == "" {
			return nil, fmt.Errorf("drive download: no file id in url %q", rawURL)
		}
		if d.authenticated {
			target = apiDownloadURL(fileID)
		} else {
			target = DirectDownloadURL(fileID)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("drive download: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("drive download: http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("drive download: read body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("drive download: empty file")
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("drive download: file exceeds %d bytes", maxImageBytes)
	}

	mimeType := DetectMIME(data)
	if d.log != nil {
		d.log.Debug("drive", "image downloaded", map[string]interface{}{
			"url":   rawURL,
			"bytes": len(data),
			"mime":  mimeType,
		})
	}
	return &Image{Data: data, MIMEType: mimeType}, nil
}

// DetectMIME sniffs the image type from magic bytes, defaulting to
// JPEG for unrecognized content.
func DetectMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
