package middleware

import (
	"net/http"

	"github.com/homeslands/order-sub002/api/responses"
	"github.com/homeslands/order-sub002/pkg/enums"
	pkgerrors "github.com/homeslands/order-sub002/pkg/errors"
	"github.com/homeslands/order-sub002/pkg/logger"
)

// RequireAnyRole rejects requests whose actor holds none of the given roles.
// Settlement stays behind counter accounts this way.
func RequireAnyRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := enums.UserRole(RoleFromContext(r.Context()))
			for _, role := range roles {
				if actor == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
		})
	}
}
