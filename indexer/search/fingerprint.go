package search

import (
	"crypto/sha1"
	"fmt"
)

// GetResultFingerprint derives a stable identity for a result so that
// repeated scrapes of the same release can be recognized even when the
// site lacks GUIDs.
func GetResultFingerprint(item *ResultItem) string {
	h := sha1.New()
	_, _ = fmt.Fprintf(h, "%s|%d|%s", item.Title, item.Size, item.Link)
	return fmt.Sprintf("%x", h.Sum(nil))
}
