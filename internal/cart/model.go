package cart

import (
	"math"
	"time"

	"github.com/andeshop/storefront-go/internal/upstream"
)

// Line is one product entry in the cart. ProductID is the canonical
// identifier resolved at ingress; there is exactly one line per product.
type Line struct {
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Stock       int     `json:"stock"`
	Promotional bool    `json:"promotional"`
}

type Cart struct {
	ID        string    `json:"cartId"`
	UserID    string    `json:"userId"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewLine maps a catalog product onto the canonical line shape with
// quantity 1.
func NewLine(p upstream.Product) Line {
	return Line{
		ProductID:   p.ID,
		Name:        p.Name,
		UnitPrice:   p.Price,
		Quantity:    1,
		Stock:       p.Stock,
		Promotional: p.Promotional,
	}
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity. A non-finite unit price counts
// as zero.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.Lines {
		price := l.UnitPrice
		if math.IsNaN(price) || math.IsInf(price, 0) {
			price = 0
		}
		total += price * float64(l.Quantity)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) HasPromotional() bool {
	for _, l := range c.Lines {
		if l.Promotional {
			return true
		}
	}
	return false
}

func (c *Cart) lineIndex(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
