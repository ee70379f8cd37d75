// Package proxy is the local pass-through gateway: it relays requests to
// the upstream API unchanged, adding only the bearer credential read from
// the session cookie. No retries, no caching, no request coalescing —
// concurrent identical requests each reach the upstream.
package proxy

import (
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// PathPrefix is stripped from inbound request paths before forwarding.
const PathPrefix = "/api/proxy/"

// TokenCookie names the cookie holding the opaque session token.
const TokenCookie = "token"

// SignInPath is where unauthenticated page requests are redirected.
const SignInPath = "/signin"

// Gateway forwards requests under PathPrefix to the upstream base URL.
type Gateway struct {
	baseURL string
	client  *http.Client
}

// New creates a Gateway for the given upstream base URL.
func New(baseURL string) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
			// Redirects are relayed to the caller, not followed here.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Handler returns the gateway's full route set: the proxy under
// PathPrefix and the session boundary for everything else.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(PathPrefix, http.HandlerFunc(g.forward))
	mux.Handle("/", RequireToken(http.NotFoundHandler()))
	return mux
}

// forward relays one request: same method, path, query, and body, with
// the session token attached as a bearer credential. The upstream status,
// body, and content type come back verbatim.
func (g *Gateway) forward(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(TokenCookie); err == nil {
		token = c.Value
	}

	upstream := g.baseURL + "/" + strings.TrimPrefix(r.URL.Path, PathPrefix)
	if r.URL.RawQuery != "" {
		upstream += "?" + r.URL.RawQuery
	}

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, upstream, body)
	if err != nil {
		http.Error(w, "bad gateway request", http.StatusBadGateway)
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", r.Header.Get("Content-Type"))

	resp, err := g.client.Do(req)
	if err != nil {
		http.Error(w, "upstream unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

// RequireToken is the session boundary: page requests without the token
// cookie are redirected to sign-in. The token's validity is the
// backend's concern, only its presence is checked here.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, SignInPath) || strings.HasPrefix(r.URL.Path, "/api") {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := r.Cookie(TokenCookie); err != nil {
			http.Redirect(w, r, SignInPath, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
