package identity

import (
	"net/url"
	"strings"
)

// Canonical normalizes a free-form dependency reference to the lowercase
// identity used as a key everywhere in the graph. A URL keeps only its last
// path segment with a trailing ".git" stripped; a filesystem path keeps only
// its last segment; anything else is used verbatim.
// Examples:
//
//	https://github.com/apple/swift-log.git -> swift-log
//	../Libraries/NetworkKit               -> networkkit
//	Alamofire                             -> alamofire
func Canonical(ref string) string {
	return strings.ToLower(Display(ref))
}

// Display extracts the same segment as Canonical but preserves the original
// casing, for use as a node label.
func Display(ref string) string {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimSuffix(ref, "/")

	if isURL(ref) {
		segment := lastSegment(urlPath(ref))
		return strings.TrimSuffix(segment, ".git")
	}

	if strings.ContainsAny(ref, "/\\") {
		return lastSegment(strings.ReplaceAll(ref, "\\", "/"))
	}

	return ref
}

func isURL(ref string) bool {
	if strings.Contains(ref, "://") {
		return true
	}
	// scp-style git reference, e.g. git@github.com:apple/swift-log.git
	return strings.HasPrefix(ref, "git@")
}

func urlPath(ref string) string {
	if strings.HasPrefix(ref, "git@") {
		if idx := strings.Index(ref, ":"); idx != -1 {
			return ref[idx+1:]
		}
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		return strings.TrimSuffix(u.Path, "/")
	}
	return ref
}

func lastSegment(p string) string {
	if idx := strings.LastIndex(p, "/"); idx != -1 {
		return p[idx+1:]
	}
	return p
}
