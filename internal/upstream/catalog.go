package upstream

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
)

// Product is the canonical catalog shape. The upstream API is loose about
// field names, so the unmarshaller resolves identifier-like and price-like
// fields in a fixed priority order once, at ingress. Callers never see the
// raw variants.
type Product struct {
	ID          string
	Name        string
	Slug        string
	Price       float64
	Stock       int
	Promotional bool
	CategoryID  string
	ImageURL    string
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = firstString(raw, "id", "productId", "_id", "sku")
	p.Name = firstString(raw, "name", "nombre", "title")
	p.Slug = firstString(raw, "slug")
	p.Price = firstNumber(raw, "price", "unitPrice", "precio")
	p.Stock = int(firstNumber(raw, "stock", "existencias"))
	p.Promotional = firstBool(raw, "promotional", "promo", "enPromocion")
	p.CategoryID = firstString(raw, "categoryId", "category_id")
	p.ImageURL = firstString(raw, "imageUrl", "image")
	return nil
}

func firstString(raw map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		msg, ok := raw[k]
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}

// firstNumber returns 0 for missing or non-numeric values.
func firstNumber(raw map[string]json.RawMessage, keys ...string) float64 {
	for _, k := range keys {
		msg, ok := raw[k]
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			if !math.IsNaN(n) && !math.IsInf(n, 0) {
				return n
			}
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func firstBool(raw map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		msg, ok := raw[k]
		if !ok {
			continue
		}
		var v bool
		if err := json.Unmarshal(msg, &v); err == nil {
			return v
		}
	}
	return false
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ProductsByCategorySlug(ctx context.Context, slug string) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products/category/name/"+slug, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.getJSON(ctx, "/products/"+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var p Product
	if err := c.getJSON(ctx, "/products/slug/"+slug, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.getJSON(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
