package events

import "time"

// OrderSubmitted is emitted after a checkout registers an order upstream.
// FailedDetails lists product IDs whose detail record did not make it, so a
// consumer can reconcile partially covered orders.
type OrderSubmitted struct {
	EventType       string      `json:"eventType"`
	OrderID         string      `json:"orderId"`
	CustomerID      string      `json:"customerId"`
	Total           float64     `json:"total"`
	DiscountCode    string      `json:"discountCode,omitempty"`
	DiscountPercent float64     `json:"discountPercent,omitempty"`
	Items           []OrderItem `json:"items"`
	FailedDetails   []string    `json:"failedDetails,omitempty"`
	Timestamp       time.Time   `json:"timestamp"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}
