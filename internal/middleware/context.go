package middleware

type ctxKey string

const (
	ctxCorrelationID ctxKey = "correlation_id"
	ctxCustomerID    ctxKey = "customer_id"
)
