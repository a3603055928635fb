package constants

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestId      = "X-Request-Id"
	HeaderXIdempotencyKey = "X-Idempotency-Key"

	// ContextKeyIdempotencyKey is the context key for the idempotency key.
	ContextKeyIdempotencyKey contextKey = "x-idempotency-key"
)

// Service names, used for health payloads, tracer resources and log records.
const (
	CustomerService = "customer-service"
	ProductService  = "product-service"
	OrderService    = "order-service"
	APIGateway      = "api-gateway"
)
