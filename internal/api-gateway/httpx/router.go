package httpx

import (
	"log/slog"
	"net/http"

	"github.com/jcmexdev/shop-services/internal/pkg/httpkit"
)

// Upstreams are the base URLs of the services behind the gateway.
type Upstreams struct {
	Customers string
	Products  string
	Orders    string
}

// NewRouter builds the gateway router. Every path under /customers,
// /products and /orders goes to the owning service; / and /health are
// answered by the gateway itself.
func NewRouter(svc httpkit.Service, up Upstreams) (http.Handler, error) {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := httpkit.NewRouter(svc)
	for _, route := range []struct {
		prefix, name, target string
	}{
		{"/customers", "customer-service", up.Customers},
		{"/products", "product-service", up.Products},
		{"/orders", "order-service", up.Orders},
	} {
		proxy, err := newProxy(route.name, route.target, logger)
		if err != nil {
			return nil, err
		}
		r.Handle(route.prefix, proxy)
		r.Handle(route.prefix+"/*", proxy)
	}
	return r, nil
}
