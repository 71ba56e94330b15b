// Package requestid tags every HTTP request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID header or generates a UUID,
// stores the id in the request context and echoes it in the response.
// LoggerExtractor plugs the id into pkg/logger so every log line written with
// the request context carries it.
package requestid
