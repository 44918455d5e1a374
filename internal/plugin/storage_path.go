package plugin

import "strings"

const (
	// CdnPrefix marks a reference to an object in the CDN bucket.
	CdnPrefix = "cdn://"

	roomMediaPrefix = "room-media/"
)

// IsCdnURL reports whether url points into the CDN.
func IsCdnURL(url string) bool {
	return strings.HasPrefix(url, CdnPrefix) && len(url) > len(CdnPrefix)
}

// IsAccessibleStoragePath reports whether a CDN url can be used from the
// given scope. Document media is public; room media is only reachable from
// the room that owns it.
func IsAccessibleStoragePath(url, scopeID string) bool {
	path := strings.TrimPrefix(url, CdnPrefix)
	if !strings.HasPrefix(path, roomMediaPrefix) {
		return true
	}
	rest := strings.TrimPrefix(path, roomMediaPrefix)
	roomID, _, _ := strings.Cut(rest, "/")
	return roomID != "" && roomID == scopeID
}
