package models

import (
	"strings"

	"github.com/pauljones0/steam-deal-digest/internal/util"
)

// DedupKey identifies a game across content blocks: the normalized link,
// or the Steam app id when the row has no link.
type DedupKey struct {
	URL        string
	SteamAppID int
}

// DedupKey returns the row's identity. ok is false for rows with neither a link nor an app id;
// such rows cannot be deduplicated.
func (p *Product) DedupKey() (DedupKey, bool) {
	if link := strings.TrimSpace(p.Link); link != "" {
		return DedupKey{URL: util.NormalizeURL(link)}, true
	}
	if p.SteamAppID != nil {
		return DedupKey{SteamAppID: *p.SteamAppID}, true
	}
	return DedupKey{}, false
}
