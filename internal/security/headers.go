package security

import (
	"net/http"
	"strings"
)

var (
	transakOrigins = []string{"https://global.transak.com", "https://global-stg.transak.com"}
	sardineOrigin  = "https://api.sardine.ai"

	extensionFrameAncestors = []string{"'self'", "https:", "http://localhost:*", "http://127.0.0.1:*"}
	extensionHMRWebsocket   = "ws://localhost:2222"
)

// DefaultConnectSrc are the chain endpoints the wallet talks to by default
var DefaultConnectSrc = []string{
	"https://grpc.oasis.dev",
	"https://testnet.grpc.oasis.dev",
	"https://api.oasisscan.com",
	"https://monitor.oasis.dev",
}

// CSPOptions tune the Content-Security-Policy
type CSPOptions struct {
	// Extension relaxes frame-ancestors for the browser extension build
	Extension bool
	// ConnectSrc lists the RPC and explorer origins; DefaultConnectSrc when empty
	ConnectSrc []string
	// FrameSrc lists origins allowed in iframes; the fiat on-ramp when empty
	FrameSrc []string
}

type directive struct {
	name    string
	sources []string
}

// ContentSecurityPolicy returns the single line CSP header value
func ContentSecurityPolicy(opts CSPOptions) string {
	connectSrc := opts.ConnectSrc
	if len(connectSrc) == 0 {
		connectSrc = DefaultConnectSrc
	}
	frameSrc := opts.FrameSrc
	if len(frameSrc) == 0 {
		frameSrc = transakOrigins
	}

	connect := append([]string{"'self'"}, connectSrc...)
	frameAncestors := []string{"'none'"}
	if opts.Extension {
		connect = append(connect, extensionHMRWebsocket)
		frameAncestors = extensionFrameAncestors
	}

	return joinDirectives([]directive{
		{"default-src", []string{"'none'"}},
		{"script-src", []string{"'self'", "'report-sample'"}},
		{"style-src", []string{"'self'", "'unsafe-inline'", "'report-sample'"}},
		{"font-src", []string{"'self'"}},
		{"connect-src", connect},
		{"frame-ancestors", frameAncestors},
		{"frame-src", frameSrc},
		{"img-src", []string{"'self'", "data:", "https:"}},
		{"base-uri", []string{"'self'"}},
		{"manifest-src", []string{"'self'"}},
	})
}

func joinDirectives(directives []directive) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		tokens := []string{d.name}
		for _, s := range d.sources {
			if s = strings.TrimSpace(s); s != "" {
				tokens = append(tokens, s)
			}
		}
		parts = append(parts, strings.Join(tokens, " "))
	}
	return strings.Join(parts, "; ")
}

// PermissionsPolicy returns the Permissions-Policy header value
func PermissionsPolicy() string {
	transak := quote(transakOrigins)
	sardine := quote([]string{sardineOrigin})

	features := []struct {
		name      string
		allowlist []string
	}{
		{"accelerometer", sardine},
		{"ambient-light-sensor", nil},
		{"autoplay", nil},
		{"bluetooth", []string{"self"}},
		{"camera", transak},
		{"cross-origin-isolated", nil},
		{"display-capture", nil},
		{"document-domain", nil},
		{"encrypted-media", nil},
		{"execution-while-not-rendered", nil},
		{"execution-while-out-of-viewport", nil},
		{"fullscreen", append([]string{"self"}, transak...)},
		{"geolocation", nil},
		{"gyroscope", sardine},
		{"keyboard-map", nil},
		{"magnetometer", nil},
		{"microphone", transak},
		{"midi", nil},
		{"navigation-override", nil},
		{"payment", transak},
		{"picture-in-picture", nil},
		{"publickey-credentials-get", nil},
		{"screen-wake-lock", nil},
		{"sync-xhr", nil},
		{"usb", []string{"self"}},
		{"web-share", nil},
		{"xr-spatial-tracking", nil},
	}

	parts := make([]string, 0, len(features))
	for _, f := range features {
		parts = append(parts, f.name+"=("+strings.Join(f.allowlist, " ")+")")
	}
	return strings.Join(parts, ", ")
}

func quote(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		out = append(out, `"`+o+`"`)
	}
	return out
}

// Headers sets the security headers on every response
func Headers(opts CSPOptions) func(http.Handler) http.Handler {
	csp := ContentSecurityPolicy(opts)
	permissions := PermissionsPolicy()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("Permissions-Policy", permissions)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}
