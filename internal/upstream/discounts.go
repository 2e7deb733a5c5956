package upstream

import "context"

// CodeValidation is the response of the validate endpoint. UsesRemaining is
// -1 when the upstream does not report it.
type CodeValidation struct {
	Valid         bool    `json:"valid"`
	Code          string  `json:"code"`
	Percent       float64 `json:"percent"`
	UsesRemaining int     `json:"usesRemaining"`
	Message       string  `json:"message"`
}

type CodeConsumption struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) ValidateCode(ctx context.Context, code string) (*CodeValidation, error) {
	v := CodeValidation{UsesRemaining: -1}
	if err := c.getJSON(ctx, "/discount-codes/validate/"+code, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ConsumeCode burns one use of the code. One-time-use semantics are owned by
// the upstream; this call is not retried.
func (c *Client) ConsumeCode(ctx context.Context, code string) (*CodeConsumption, error) {
	var out CodeConsumption
	body := map[string]string{"code": code}
	if err := c.postJSON(ctx, "/discount-codes/consume", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
