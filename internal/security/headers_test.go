package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standaloneCSP = "default-src 'none'; " +
	"script-src 'self' 'report-sample'; " +
	"style-src 'self' 'unsafe-inline' 'report-sample'; " +
	"font-src 'self'; " +
	"connect-src 'self' https://grpc.oasis.dev https://testnet.grpc.oasis.dev https://api.oasisscan.com https://monitor.oasis.dev; " +
	"frame-ancestors 'none'; " +
	"frame-src https://global.transak.com https://global-stg.transak.com; " +
	"img-src 'self' data: https:; " +
	"base-uri 'self'; " +
	"manifest-src 'self'"

func TestContentSecurityPolicyStandalone(t *testing.T) {
	assert.Equal(t, standaloneCSP, ContentSecurityPolicy(CSPOptions{}))
}

func TestContentSecurityPolicyExtension(t *testing.T) {
	csp := ContentSecurityPolicy(CSPOptions{Extension: true})
	assert.Contains(t, csp, "connect-src 'self' https://grpc.oasis.dev https://testnet.grpc.oasis.dev https://api.oasisscan.com https://monitor.oasis.dev ws://localhost:2222; ")
	assert.Contains(t, csp, "frame-ancestors 'self' https: http://localhost:* http://127.0.0.1:*; ")
	assert.NotContains(t, csp, "'none'; frame-src")
}

func TestContentSecurityPolicyHasNoStraySeparators(t *testing.T) {
	for _, opts := range []CSPOptions{
		{},
		{Extension: true},
		{ConnectSrc: []string{"http://localhost:8080", " "}},
		{Extension: true, FrameSrc: []string{"https://example.org"}},
	} {
		csp := ContentSecurityPolicy(opts)
		assert.NotContains(t, csp, ";;")
		assert.NotContains(t, csp, " ;")
		assert.NotContains(t, csp, "  ")
		assert.NotContains(t, csp, "\n")
		assert.False(t, strings.HasSuffix(csp, ";"), csp)
		assert.False(t, strings.HasSuffix(csp, " "), csp)

		for _, d := range strings.Split(csp, "; ") {
			assert.NotEmpty(t, strings.TrimSpace(d))
		}
	}
}

func TestContentSecurityPolicyCustomSources(t *testing.T) {
	csp := ContentSecurityPolicy(CSPOptions{ConnectSrc: []string{"http://localhost:42280"}})
	assert.Contains(t, csp, "connect-src 'self' http://localhost:42280; ")
	assert.NotContains(t, csp, "grpc.oasis.dev")
}

func TestPermissionsPolicy(t *testing.T) {
	policy := PermissionsPolicy()
	transak := `"https://global.transak.com" "https://global-stg.transak.com"`

	assert.True(t, strings.HasPrefix(policy, `accelerometer=("https://api.sardine.ai"), ambient-light-sensor=(), `))
	assert.True(t, strings.HasSuffix(policy, "web-share=(), xr-spatial-tracking=()"))
	assert.Contains(t, policy, "camera=("+transak+"), ")
	assert.Contains(t, policy, "microphone=("+transak+"), ")
	assert.Contains(t, policy, "payment=("+transak+"), ")
	assert.Contains(t, policy, "fullscreen=(self "+transak+"), ")
	assert.Contains(t, policy, "bluetooth=(self), ")
	assert.Contains(t, policy, "usb=(self), ")
	assert.Contains(t, policy, "geolocation=(), ")
	assert.NotContains(t, policy, ",,")
	assert.NotContains(t, policy, " ,")
	assert.Len(t, strings.Split(policy, ", "), 27)
}

func TestHeadersMiddleware(t *testing.T) {
	h := Headers(CSPOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, standaloneCSP, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, PermissionsPolicy(), rec.Header().Get("Permissions-Policy"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
