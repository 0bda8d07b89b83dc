package todoable

import (
	"net/url"
	"strings"
)

// MissingID is substituted for a created resource's id when the response
// carries no usable Location header. Callers can compare against it to
// detect the anomaly; the rest of the created resource is still returned.
const MissingID = "missing-id"

// listPayload mirrors a list object as returned by /lists and /lists/{id}.
type listPayload struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Src   string        `json:"src"`
	Items []itemPayload `json:"items"`
}

// listsResponse mirrors GET /lists.
type listsResponse struct {
	Lists []listPayload `json:"lists"`
}

// itemPayload mirrors a list item. FinishedAt is null for open items.
type itemPayload struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Src        string  `json:"src"`
	FinishedAt *string `json:"finished_at"`
}

// authResponse mirrors POST /authenticate.
type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// listFromResponse builds a persisted List from a decoded payload. The id is
// the explicit id field when present, otherwise the last segment of src.
func listFromResponse(p listPayload) List {
	list := List{
		ID:    p.ID,
		Name:  p.Name,
		Items: make([]ListItem, 0, len(p.Items)),
	}
	if list.ID == "" {
		list.ID = segmentFromEnd(p.Src, 1)
	}
	for _, item := range p.Items {
		list.Items = append(list.Items, itemFromResponse(item))
	}
	return list
}

// itemFromResponse builds a ListItem. src has the shape
// .../lists/{listId}/items/{itemId}: the item id is the last segment and the
// list id is three segments from the end.
func itemFromResponse(p itemPayload) ListItem {
	item := ListItem{
		ID:     p.ID,
		ListID: segmentFromEnd(p.Src, 3),
		Name:   p.Name,
		Status: StatusTodo,
	}
	if item.ID == "" {
		item.ID = segmentFromEnd(p.Src, 1)
	}
	if p.FinishedAt != nil {
		item.Status = StatusDone
	}
	return item
}

// idFromLocation extracts the created resource's id from a Location header,
// falling back to MissingID when the header is absent or malformed.
func idFromLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return MissingID
	}
	u, err := url.Parse(location)
	if err != nil {
		return MissingID
	}
	id := segmentFromEnd(u.Path, 1)
	if id == "" {
		return MissingID
	}
	return id
}

// segmentFromEnd returns the n-th path segment counted from the end of a
// resource URL (n=1 is the last segment). It returns "" when the URL has too
// few segments.
func segmentFromEnd(ref string, n int) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || n < 1 {
		return ""
	}
	path := ref
	if u, err := url.Parse(ref); err == nil {
		path = u.Path
	}
	segments := strings.Split(strings.TrimRight(path, "/"), "/")
	if len(segments) < n {
		return ""
	}
	return segments[len(segments)-n]
}
