package todoable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestItemFromResponse_StatusFollowsFinishedAt(t *testing.T) {
	open := itemFromResponse(itemPayload{Name: "milk", Src: "http://x/lists/L/items/I"})
	assert.Equal(t, StatusTodo, open.Status)
	assert.False(t, open.Done())

	done := itemFromResponse(itemPayload{
		Name:       "milk",
		Src:        "http://x/lists/L/items/I",
		FinishedAt: strptr("2018-01-01T00:00:00Z"),
	})
	assert.Equal(t, StatusDone, done.Status)
	assert.True(t, done.Done())
}

func TestItemFromResponse_IDsFromSrc(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want ListItem
	}{
		{"absolute", "https://todoable.teachable.tech/api/lists/L1/items/I1", ListItem{ID: "I1", ListID: "L1", Name: "n"}},
		{"relative", "lists/L2/items/I2", ListItem{ID: "I2", ListID: "L2", Name: "n"}},
		{"trailing slash", "http://h/lists/L3/items/I3/", ListItem{ID: "I3", ListID: "L3", Name: "n"}},
		{"too short", "I4", ListItem{ID: "I4", Name: "n"}},
		{"empty", "", ListItem{Name: "n"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := itemFromResponse(itemPayload{Name: "n", Src: tc.src})
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("itemFromResponse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItemFromResponse_ExplicitIDWins(t *testing.T) {
	got := itemFromResponse(itemPayload{ID: "explicit", Name: "n", Src: "http://h/lists/L/items/I"})
	assert.Equal(t, "explicit", got.ID)
	assert.Equal(t, "L", got.ListID)
}

func TestListFromResponse(t *testing.T) {
	got := listFromResponse(listPayload{
		Name: "Urgent Tasks",
		Src:  "http://h/api/lists/abc",
		Items: []itemPayload{
			{Name: "one", Src: "http://h/api/lists/abc/items/1"},
			{Name: "two", Src: "http://h/api/lists/abc/items/2", FinishedAt: strptr("2018-01-01")},
		},
	})
	want := List{
		ID:   "abc",
		Name: "Urgent Tasks",
		Items: []ListItem{
			{ID: "1", ListID: "abc", Name: "one", Status: StatusTodo},
			{ID: "2", ListID: "abc", Name: "two", Status: StatusDone},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("listFromResponse mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, got.Pending(), 1)

	explicit := listFromResponse(listPayload{ID: "from-id", Name: "x", Src: "http://h/lists/from-src"})
	assert.Equal(t, "from-id", explicit.ID)
	require.NotNil(t, explicit.Items)
	assert.Empty(t, explicit.Items)
}

func TestRequestBodies(t *testing.T) {
	body, err := NewList("Urgent Tasks").RequestBody()
	require.NoError(t, err)
	assert.JSONEq(t, `{"list": {"name": "Urgent Tasks"}}`, string(body))

	body, err = NewListItem("Take out the trash").RequestBody()
	require.NoError(t, err)
	assert.JSONEq(t, `{"item": {"name": "Take out the trash"}}`, string(body))
}

func TestPersisted(t *testing.T) {
	list := NewList("x")
	assert.False(t, list.Persisted())
	assert.True(t, listFromResponse(listPayload{Name: "x", Src: "http://h/lists/1"}).Persisted())

	item := NewListItem("x")
	assert.False(t, item.Persisted())
	assert.Equal(t, StatusTodo, item.Status)
	item.ID = "i"
	assert.False(t, item.Persisted(), "item without a list id is not persisted")
	assert.True(t, itemFromResponse(itemPayload{Name: "x", Src: "http://h/lists/L/items/I"}).Persisted())
}

func TestIDFromLocation(t *testing.T) {
	assert.Equal(t, "new-id", idFromLocation("https://h/api/lists/new-id"))
	assert.Equal(t, "item", idFromLocation("https://h/api/lists/l/items/item"))
	assert.Equal(t, MissingID, idFromLocation(""))
	assert.Equal(t, MissingID, idFromLocation("   "))
	assert.Equal(t, MissingID, idFromLocation("http://[::1"))
	assert.Equal(t, MissingID, idFromLocation("https://h"))
}

func TestStatusText(t *testing.T) {
	text, err := StatusDone.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "done", string(text))

	var s Status
	require.NoError(t, s.UnmarshalText([]byte("done")))
	assert.Equal(t, StatusDone, s)
	assert.Error(t, s.UnmarshalText([]byte("maybe")))
}
