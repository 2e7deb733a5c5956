package upstream

import "context"

type OrderHeader struct {
	CustomerID      string  `json:"customerId"`
	Total           float64 `json:"total"`
	Status          string  `json:"status"`
	DiscountCode    string  `json:"discountCode,omitempty"`
	DiscountPercent float64 `json:"discountPercent,omitempty"`
}

type OrderDetail struct {
	OrderID   string  `json:"orderId"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

func (c *Client) CreateOrder(ctx context.Context, header OrderHeader) (string, error) {
	var out struct {
		OrderID string `json:"orderId"`
	}
	if err := c.postJSON(ctx, "/orders", header, &out); err != nil {
		return "", err
	}
	return out.OrderID, nil
}

func (c *Client) CreateOrderDetail(ctx context.Context, detail OrderDetail) error {
	return c.postJSON(ctx, "/order-details", detail, nil)
}
