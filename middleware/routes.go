package middleware

import "net/http"

// ProtectedPaths are the storefront pages that require a signed-in customer.
var ProtectedPaths = []string{"/Perfil", "/Carrito", "/ConfiguracionPerfil"}

// Protect registers each handler on mux behind [RequireAuthenticated].
func Protect(mux *http.ServeMux, gate StateReader, opts Options, routes map[string]http.Handler) {
	guard := RequireAuthenticated(gate, opts)
	for pattern, h := range routes {
		mux.Handle(pattern, guard(h))
	}
}
