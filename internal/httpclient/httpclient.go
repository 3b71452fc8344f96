// Package httpclient builds the pooled outbound client shared by the
// document fetcher, the image transformer and the LLM backends.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// New returns a client with connection pooling and dial/TLS limits. It sets
// no overall Client.Timeout: outbound calls are bounded by the inbound
// request's context instead, so a client abort cancels them.
func New() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}
