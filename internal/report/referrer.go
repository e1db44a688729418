package report

import (
	"net/url"
	"sort"
	"strings"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
)

const topReferrerLimit = 5

// normalizeReferrer reduces a referrer URL to scheme://host/first-path-segment
// so variants of the same landing source group together. Unparseable or
// schemeless values fall into the "direct" bucket.
func normalizeReferrer(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "direct"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "direct"
	}
	normalized := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
	if seg := firstPathSegment(u.Path); seg != "" {
		normalized += "/" + seg
	}
	return normalized
}

func firstPathSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

// topReferrers counts distinct sessions per normalized source and keeps the
// limit highest. A session seen under several raw variants of one source
// counts once for it. Ties are broken alphabetically so the result is
// deterministic.
func topReferrers(raw []entity.SessionReferrer, limit int) []entity.ReferrerCount {
	sessions := make(map[string]map[string]struct{}, len(raw))
	for _, r := range raw {
		source := normalizeReferrer(r.Source)
		if sessions[source] == nil {
			sessions[source] = make(map[string]struct{})
		}
		sessions[source][r.SessionID] = struct{}{}
	}
	out := make([]entity.ReferrerCount, 0, len(sessions))
	for source, ids := range sessions {
		out = append(out, entity.ReferrerCount{Source: source, Count: len(ids)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
