package domain

import "strings"

// RouteParams holds path segments extracted by the router for one page render.
type RouteParams map[string]string

func (p RouteParams) PageId() PageId {
	return p[PageIdParam]
}

// Expand substitutes every {name} segment of pattern with its param value.
func (p RouteParams) Expand(pattern string) string {
	if !strings.Contains(pattern, "{") {
		return pattern
	}
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
			segments[i] = p[seg[1:len(seg)-1]]
		}
	}
	return strings.Join(segments, "/")
}
