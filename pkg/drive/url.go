// Package drive downloads product imagery from Google Drive share
// links and pushes it onto the Shopify CDN through staged uploads.
package drive

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// /d/{FILE_ID}/ path segment used by file/d/.../view links.
	pathIDRe = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)
	// id={FILE_ID} query parameter used by open?id= and uc?id= links.
	queryIDRe = regexp.MustCompile(`[?&]id=([a-zA-Z0-9-_]+)`)
)

// ExtractFileID pulls the Drive file ID out of any of the common share
// link formats. Returns an empty string when the URL carries none.
func ExtractFileID(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if m := pathIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	if m := queryIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// DirectDownloadURL converts a file ID to the unauthenticated direct
// download form.
func DirectDownloadURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", fileID)
}

// apiDownloadURL is the Drive v3 media endpoint used when a service
// account token is available.
func apiDownloadURL(fileID string) string {
	return fmt.Sprintf("https://www.googleapis.com/drive/v3/files/%s?alt=media", fileID)
}

// IsDriveURL reports whether the URL points at Google Drive.
func IsDriveURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, "drive.google.com") || strings.Contains(lower, "docs.google.com")
}
