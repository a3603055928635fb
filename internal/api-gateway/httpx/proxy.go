// Package httpx is the API gateway: one public address in front of the
// customer, product and order services.
package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/shop-services/internal/pkg/constants"
	"github.com/jcmexdev/shop-services/internal/pkg/httpkit"
)

// newProxy forwards requests to target unchanged apart from the host. The
// gateway's request id goes along so upstream logs can be correlated.
func newProxy(name, target string, logger *slog.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s upstream %q: %w", name, target, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: %s upstream %q: scheme and host are required", name, target)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
			if id := middleware.GetReqID(pr.In.Context()); id != "" {
				pr.Out.Header.Set(constants.HeaderXRequestId, id)
			}
		},
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.ErrorContext(r.Context(), "upstream request failed",
				"upstream", name, "method", r.Method, "path", r.URL.Path, "error", err)
			httpkit.WriteError(w, http.StatusBadGateway, "upstream_unavailable", name+" is unavailable")
		},
	}, nil
}
