// Package clientip resolves the address of the client behind an HTTP request.
//
// Proxy headers are only trusted when named explicitly, in priority order:
//
//	r.Use(clientip.Middleware("X-Forwarded-For", "X-Real-IP"))
//
// Without headers the peer address from RemoteAddr is used. The resolved IP
// is stored in the request context and LoggerExtractor adds it to log records
// as "client_ip".
package clientip
