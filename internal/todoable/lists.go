package todoable

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Lists fetches every list of the authenticated user. The endpoint does not
// return items, so each List has an empty Items slice.
func (c *Client) Lists(ctx context.Context) ([]List, error) {
	resp, err := c.do(ctx, http.MethodGet, c.resolve("lists"), nil)
	if err != nil {
		return nil, err
	}
	var payload listsResponse
	if err := decode(resp, &payload); err != nil {
		return nil, err
	}
	lists := make([]List, 0, len(payload.Lists))
	for _, p := range payload.Lists {
		p.Items = nil
		lists = append(lists, listFromResponse(p))
	}
	return lists, nil
}

// FindList fetches one list including its items.
func (c *Client) FindList(ctx context.Context, id string) (List, error) {
	if err := requireID("list id", id); err != nil {
		return List{}, err
	}
	resp, err := c.do(ctx, http.MethodGet, c.resolve("lists", id), nil)
	if err != nil {
		return List{}, err
	}
	var payload listPayload
	if err := decode(resp, &payload); err != nil {
		return List{}, err
	}
	list := listFromResponse(payload)
	if list.ID == "" {
		list.ID = id
	}
	return list, nil
}

// CreateList creates a list and returns it persisted. The id comes from the
// body (id, then src) and otherwise from the Location header; when none of
// them carries one the id is MissingID.
func (c *Client) CreateList(ctx context.Context, name string) (List, error) {
	body, err := NewList(name).RequestBody()
	if err != nil {
		return List{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, c.resolve("lists"), body)
	if err != nil {
		return List{}, err
	}

	var payload listPayload
	if len(resp.Body) > 0 {
		if err := decode(resp, &payload); err != nil {
			return List{}, err
		}
	}
	if payload.Name == "" {
		payload.Name = name
	}
	if payload.ID == "" && segmentFromEnd(payload.Src, 1) == "" {
		payload.ID = idFromLocation(resp.Header.Get("Location"))
	}
	if payload.ID == MissingID {
		c.logger.Warn("create list response had no usable Location header",
			zap.String("name", name),
			zap.String("location", resp.Header.Get("Location")))
	}
	payload.Items = nil
	return listFromResponse(payload), nil
}

// RenameList renames a list. The endpoint answers with plain text rather than
// a resource, so success is reported as true and the list is not re-fetched.
func (c *Client) RenameList(ctx context.Context, id, name string) (bool, error) {
	if err := requireID("list id", id); err != nil {
		return false, err
	}
	body, err := NewList(name).RequestBody()
	if err != nil {
		return false, err
	}
	if _, err := c.do(ctx, http.MethodPatch, c.resolve("lists", id), body); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteList deletes a list and its items.
func (c *Client) DeleteList(ctx context.Context, id string) (bool, error) {
	if err := requireID("list id", id); err != nil {
		return false, err
	}
	if _, err := c.do(ctx, http.MethodDelete, c.resolve("lists", id), nil); err != nil {
		return false, err
	}
	return true, nil
}
