package main

import (
	"net/http"
	"time"
)

// timeoutBody avoids inline scripts because the CSP only admits scripts carrying the request nonce.
const timeoutBody = `<!doctype html>
<html lang="en">
<head><title>Signal lost | Terra Tracker</title></head>
<body>
<h1>Signal lost</h1>
<p>Terra did not answer in time. The satellite passes again shortly.</p>
<p><a href="/investigation">Retry</a></p>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, timeout time.Duration) http.Handler {
	// We want the timeout to be a little shorter than the server's write timeout so that the
	// timeout handler has a chance to respond before the server closes the connection.
	httpHandlerTimeout := timeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
