package simpleboard

import "strings"

// legacyAttachmentPrefix is the path segment older records carry in front of
// the real object path. Attachment paths written before the file host was
// split out were stored as "posts/<year>/<file>"; the host serves them
// without the segment.
const legacyAttachmentPrefix = "posts/"

// ResolveDownloadURL normalizes a stored attachment path into a fetchable
// URL on the static file host. It strips the legacy "posts/" prefix when
// present, guarantees exactly one slash between base and path, and performs
// no validation of the result. The function is pure and idempotent once the
// legacy prefix is gone; every surface that renders an attachment link must
// go through it so admin and end-user screens produce identical URLs.
func ResolveDownloadURL(storedPath, baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + NormalizeAttachmentPath(storedPath)
}

// NormalizeAttachmentPath applies the path half of ResolveDownloadURL:
// legacy prefix stripped, exactly one leading slash. Idempotent once the
// prefix strip finds nothing left to strip.
func NormalizeAttachmentPath(storedPath string) string {
	p := strings.TrimPrefix(storedPath, "/")
	p = strings.TrimPrefix(p, legacyAttachmentPrefix)
	return "/" + strings.TrimPrefix(p, "/")
}

// AttachmentName returns the user-visible file name of a stored attachment
// path (the final path segment).
func AttachmentName(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	parts := strings.Split(storedPath, "/")
	return parts[len(parts)-1]
}
