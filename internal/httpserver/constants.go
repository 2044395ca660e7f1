package httpserver

import "time"

const (
	defaultPort = "3000"

	readTimeout       = 3 * time.Second
	readHeaderTimeout = 3 * time.Second
	writeTimeout      = 5 * time.Second
	idleTimeout       = 60 * time.Second
	maxHeaderBytes    = 1 << 12 // 4kb

	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeCBOR = "application/cbor"

	corsMaxAge = 300

	bytesPerMB = 1024 * 1024

	unmatchedRoute = "unmatched"
)
