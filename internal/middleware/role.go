package middleware

import (
	"net/http"

	"clinicdesk/internal/domain/user"
	appErrors "clinicdesk/internal/errors"

	"github.com/gin-gonic/gin"
)

var ErrRoleRequired = appErrors.NewAppError("ROLE_REQUIRED", "Operação restrita ao seu perfil de acesso", http.StatusForbidden)

func RequireRole(roles ...user.Role) gin.HandlerFunc {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		value, exists := c.Get(ContextRole)
		if !exists {
			abortWithError(c, appErrors.ErrForbidden)
			return
		}

		role, ok := value.(user.Role)
		if !ok {
			abortWithError(c, appErrors.ErrForbidden)
			return
		}

		if _, ok := allowed[role]; !ok {
			names := make([]string, 0, len(roles))
			for _, r := range roles {
				names = append(names, string(r))
			}
			abortWithError(c, ErrRoleRequired.WithDetails(map[string]interface{}{
				"required": names,
				"current":  string(role),
			}))
			return
		}

		c.Next()
	}
}
