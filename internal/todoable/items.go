package todoable

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// CreateItem adds an item to a list. The endpoint replies with a Location
// header only; the returned item carries the requested name, the todo status
// and the id from that header (MissingID when it is absent).
func (c *Client) CreateItem(ctx context.Context, listID, name string) (ListItem, error) {
	if err := requireID("list id", listID); err != nil {
		return ListItem{}, err
	}
	item := NewListItem(name)
	body, err := item.RequestBody()
	if err != nil {
		return ListItem{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, c.resolve("lists", listID, "items"), body)
	if err != nil {
		return ListItem{}, err
	}

	item.ListID = listID
	item.ID = idFromLocation(resp.Header.Get("Location"))
	if item.ID == MissingID {
		c.logger.Warn("create item response had no usable Location header",
			zap.String("list_id", listID),
			zap.String("name", name))
	}
	return item, nil
}

// FinishItem marks an item as done.
func (c *Client) FinishItem(ctx context.Context, listID, id string) (bool, error) {
	if err := requireID("list id", listID); err != nil {
		return false, err
	}
	if err := requireID("item id", id); err != nil {
		return false, err
	}
	if _, err := c.do(ctx, http.MethodPut, c.resolve("lists", listID, "items", id, "finish"), nil); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteItem removes an item from its list.
func (c *Client) DeleteItem(ctx context.Context, listID, id string) (bool, error) {
	if err := requireID("list id", listID); err != nil {
		return false, err
	}
	if err := requireID("item id", id); err != nil {
		return false, err
	}
	if _, err := c.do(ctx, http.MethodDelete, c.resolve("lists", listID, "items", id), nil); err != nil {
		return false, err
	}
	return true, nil
}
