package client

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	driveFileRe = regexp.MustCompile(`drive\.google\.com/file/d/([^/]+)`)
	driveOpenRe = regexp.MustCompile(`drive\.google\.com/open\?id=([^&]+)`)
)

// NormalizeImageURL rewrites Google Drive share links into direct-view URLs.
// Anything it does not recognize passes through untouched.
func NormalizeImageURL(raw string) string {
	if raw == "" {
		return raw
	}
	if strings.Contains(raw, "drive.google.com/uc?export=view&id=") {
		return raw
	}
	if m := driveFileRe.FindStringSubmatch(raw); m != nil {
		return "https://drive.google.com/uc?export=view&id=" + m[1]
	}
	if m := driveOpenRe.FindStringSubmatch(raw); m != nil {
		return "https://drive.google.com/uc?export=view&id=" + m[1]
	}
	return raw
}

// DisplayImageURL returns the URL a browser should load. Google-hosted
// images go through the backend proxy because Drive refuses hotlinking.
func (c *Client) DisplayImageURL(raw string) string {
	normalized := NormalizeImageURL(raw)
	if normalized == "" {
		return normalized
	}
	if strings.Contains(normalized, "drive.google.com") ||
		strings.Contains(normalized, "lh3.googleusercontent.com") {
		return c.URL("/api/images/proxy?url=" + url.QueryEscape(normalized))
	}
	return normalized
}
