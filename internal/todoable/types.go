package todoable

import (
	"encoding/json"
	"fmt"
)

// Credentials are the username and password exchanged for a token.
type Credentials struct {
	Username string
	Password string
}

// Status is the completion state of a list item.
type Status int

const (
	StatusTodo Status = iota
	StatusDone
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	default:
		return "todo"
	}
}

// MarshalText encodes the status as "todo" or "done".
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts "todo" or "done".
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "todo", "":
		*s = StatusTodo
	case "done":
		*s = StatusDone
	default:
		return fmt.Errorf("unknown status %q", string(text))
	}
	return nil
}

// List is a named to-do list. Items are only populated when the list came
// from an endpoint that returns them (FindList); Lists leaves them empty.
type List struct {
	ID    string     `json:"id,omitempty"`
	Name  string     `json:"name"`
	Items []ListItem `json:"items"`
}

// NewList returns an unpersisted list with the given name.
func NewList(name string) List {
	return List{Name: name, Items: []ListItem{}}
}

// Persisted reports whether the server has assigned the list an id.
func (l List) Persisted() bool {
	return l.ID != ""
}

// RequestBody serializes the list the way create and rename expect it:
// {"list": {"name": ...}}.
func (l List) RequestBody() ([]byte, error) {
	return json.Marshal(listEnvelope{List: nameBody{Name: l.Name}})
}

// Pending returns the items that are not finished yet.
func (l List) Pending() []ListItem {
	var out []ListItem
	for _, item := range l.Items {
		if item.Status == StatusTodo {
			out = append(out, item)
		}
	}
	return out
}

// ListItem is a single to-do entry. ListID is a back-reference, not ownership.
type ListItem struct {
	ID     string `json:"id,omitempty"`
	ListID string `json:"list_id,omitempty"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// NewListItem returns an unpersisted item in the todo state.
func NewListItem(name string) ListItem {
	return ListItem{Name: name, Status: StatusTodo}
}

// Persisted reports whether both the item id and its list id are known.
func (i ListItem) Persisted() bool {
	return i.ID != "" && i.ListID != ""
}

// Done reports whether the item has been finished.
func (i ListItem) Done() bool {
	return i.Status == StatusDone
}

// RequestBody serializes the item as {"item": {"name": ...}}.
func (i ListItem) RequestBody() ([]byte, error) {
	return json.Marshal(itemEnvelope{Item: nameBody{Name: i.Name}})
}

type nameBody struct {
	Name string `json:"name"`
}

type listEnvelope struct {
	List nameBody `json:"list"`
}

type itemEnvelope struct {
	Item nameBody `json:"item"`
}
