package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/vijaygla/HRMS-sub000/internal/domain/auth"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/handler/http/response"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/jwt"
)

// AuthRequired turns the access token verified by jwtauth.Verifier into a
// user.Actor on the request context. Refresh tokens and revoked tokens are
// rejected.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.Unauthorized(w, "Missing or invalid access token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			actor, ok := actorFromClaims(claims)
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := user.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func actorFromClaims(claims map[string]interface{}) (user.Actor, bool) {
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !user.Role(role).IsValid() {
		return user.Actor{}, false
	}
	email, _ := claims["email"].(string)
	employeeID, _ := claims["employee_id"].(string)
	return user.Actor{
		UserID:     userID,
		EmployeeID: employeeID,
		Email:      email,
		Role:       user.Role(role),
	}, true
}
