package upstream

import (
	"context"
	"net/http"
)

type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var out Category
	if err := c.postJSON(ctx, "/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	var out Category
	if err := c.doJSON(ctx, http.MethodPut, "/categories/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/categories/"+id, nil, nil)
}
