package todoable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLists_ReturnsListsWithoutItems(t *testing.T) {
	srv := newStub(t)
	urgent := srv.SeedList("Urgent Tasks", "one", "two")
	regular := srv.SeedList("Regular Tasks")
	c := buildTestClient(t, srv)

	lists, err := c.Lists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, urgent, lists[0].ID)
	assert.Equal(t, "Urgent Tasks", lists[0].Name)
	assert.Empty(t, lists[0].Items)
	assert.True(t, lists[0].Persisted())
	assert.Equal(t, regular, lists[1].ID)
}

func TestLists_Unauthorized(t *testing.T) {
	srv := newStub(t)
	c := buildTestClient(t, srv)
	srv.FailNext(http.StatusUnauthorized, "")

	_, err := c.Lists(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFindList_IncludesItems(t *testing.T) {
	srv := newStub(t)
	id := srv.SeedList("Groceries", "milk", "eggs")
	c := buildTestClient(t, srv)

	list, err := c.FindList(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, list.ID)
	assert.Equal(t, "Groceries", list.Name)
	require.Len(t, list.Items, 2)
	assert.Equal(t, srv.ItemIDs(id), []string{list.Items[0].ID, list.Items[1].ID})
	for _, item := range list.Items {
		assert.Equal(t, id, item.ListID)
		assert.Equal(t, StatusTodo, item.Status)
	}
}

func TestFindList_NotFound(t *testing.T) {
	srv := newStub(t)
	c := buildTestClient(t, srv)

	_, err := c.FindList(context.Background(), "bad-id")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestFindList_RequiresID(t *testing.T) {
	srv := newStub(t)
	c := buildTestClient(t, srv)

	for _, id := range []string{"", "  ", "a/b", ".."} {
		_, err := c.FindList(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidArgument, "id %q", id)
	}
	assert.Zero(t, srv.Requests())
}

func TestCreateList(t *testing.T) {
	srv := newStub(t)
	c := buildTestClient(t, srv)

	list, err := c.CreateList(context.Background(), "Urgent Tasks")
	require.NoError(t, err)
	assert.True(t, list.Persisted())
	assert.NotEqual(t, MissingID, list.ID)
	assert.Equal(t, "Urgent Tasks", list.Name)
	assert.Empty(t, list.Items)

	found, err := c.FindList(context.Background(), list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Urgent Tasks", found.Name)
}

func TestCreateList_DuplicateNameIsUnprocessable(t *testing.T) {
	srv := newStub(t)
	srv.SeedList("Urgent Tasks")
	c := buildTestClient(t, srv)

	_, err := c.CreateList(context.Background(), "Urgent Tasks")
	var unprocessable *UnprocessableError
	require.ErrorAs(t, err, &unprocessable)
	assert.Equal(t, "name has already been taken.", unprocessable.Error())
}

func TestCreateList_MissingLocationUsesSentinel(t *testing.T) {
	srv := newStub(t)
	srv.OmitLocation(true)
	c := buildTestClient(t, srv)

	list, err := c.CreateList(context.Background(), "No Header")
	require.NoError(t, err)
	assert.Equal(t, MissingID, list.ID)
	assert.Equal(t, "No Header", list.Name)
}

func TestCreateList_IDSources(t *testing.T) {
	tests := []struct {
		name     string
		location string
		body     string
		want     string
	}{
		{"body id wins over missing header", "", `{"id":"abc","name":"x","src":"http://h/lists/abc"}`, "abc"},
		{"body id wins over header", "/lists/hdr", `{"id":"abc","name":"x"}`, "abc"},
		{"src when body has no id", "", `{"name":"x","src":"http://h/lists/from-src"}`, "from-src"},
		{"header when body has none", "http://h/lists/hdr", `{"name":"x"}`, "hdr"},
		{"sentinel when nothing carries one", "", `{"name":"x"}`, MissingID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if r.URL.Path == "/authenticate" {
					_, _ = w.Write([]byte(`{"token":"t"}`))
					return
				}
				if tc.location != "" {
					w.Header().Set("Location", tc.location)
				}
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, err := Build(context.Background(), srv.URL, testCreds, WithHTTPClient(srv.Client()))
			require.NoError(t, err)

			list, err := c.CreateList(context.Background(), "x")
			require.NoError(t, err)
			assert.Equal(t, tc.want, list.ID)
			assert.Equal(t, "x", list.Name)
		})
	}
}

func TestRenameList(t *testing.T) {
	srv := newStub(t)
	id := srv.SeedList("Urgent Tasks")
	c := buildTestClient(t, srv)

	ok, err := c.RenameList(context.Background(), id, "Not Really So Urgent Anymore")
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := c.FindList(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Not Really So Urgent Anymore", found.Name)
}

func TestRenameList_Errors(t *testing.T) {
	srv := newStub(t)
	c := buildTestClient(t, srv)

	ok, err := c.RenameList(context.Background(), "", "x")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.RenameList(context.Background(), "bad-id", "x")
	assert.ErrorIs(t, err, ErrContentNotFound)

	id := srv.SeedList("keep")
	_, err = c.RenameList(context.Background(), id, "")
	var unprocessable *UnprocessableError
	require.ErrorAs(t, err, &unprocessable)
	assert.Equal(t, "name can't be blank.", unprocessable.Error())
}

func TestDeleteList(t *testing.T) {
	srv := newStub(t)
	id := srv.SeedList("Temporary", "x")
	c := buildTestClient(t, srv)

	ok, err := c.DeleteList(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.FindList(context.Background(), id)
	assert.ErrorIs(t, err, ErrContentNotFound)

	_, err = c.DeleteList(context.Background(), id)
	assert.ErrorIs(t, err, ErrContentNotFound)
}
