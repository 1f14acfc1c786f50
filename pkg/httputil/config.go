// Package httputil holds the shared http client used when fetching remote
// knowledge bases. A custom transport can be injected once at startup, e.g.
// to skip TLS verification, and every consumer picks it up from here.
package httputil

import (
	"net/http"
)

var (
	httpTransport *http.Transport
	httpClient    = &http.Client{}
)

func AddTransport(transport *http.Transport) {
	httpTransport = transport
}

func GetHttpClient() *http.Client {

	if httpTransport != nil {
		httpClient.Transport = httpTransport
		return httpClient
	}

	return http.DefaultClient
}
