package server

import (
	"net/http"
	"strings"
)

const (
	headerOrigin           = "Origin"
	headerAllowOrigin      = "Access-Control-Allow-Origin"
	headerAllowCredentials = "Access-Control-Allow-Credentials"
	headerAllowMethods     = "Access-Control-Allow-Methods"
	headerAllowHeaders     = "Access-Control-Allow-Headers"
	headerVary             = "Vary"
	allowedMethodsValue    = "POST, GET, OPTIONS"
	allowedHeadersValue    = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization"
	wildcardOrigin         = "*"
	credentialsAllowed     = "true"
)

// corsMiddleware answers preflight requests and mirrors the caller origin so
// browser-based clients can reach the generation routes.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		origin := strings.TrimSpace(request.Header.Get(headerOrigin))
		if origin != "" {
			writer.Header().Set(headerAllowOrigin, origin)
			writer.Header().Set(headerAllowCredentials, credentialsAllowed)
			writer.Header().Set(headerVary, headerOrigin)
		} else {
			writer.Header().Set(headerAllowOrigin, wildcardOrigin)
		}
		writer.Header().Set(headerAllowMethods, allowedMethodsValue)
		writer.Header().Set(headerAllowHeaders, allowedHeadersValue)
		if request.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(writer, request)
	})
}
