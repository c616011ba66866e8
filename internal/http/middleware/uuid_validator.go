package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
)

// UUIDValidator проверяет, что параметр пути является UUID, и кладёт разобранное значение
// в контекст под ключом ParamKey(paramName).
// Использование: router.GET("/gigs/:id", UUIDValidator("id"), handler.GetGig)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param(paramName))
		if err != nil {
			response.BadRequest(c, "параметр "+paramName+" должен быть валидным UUID")
			c.Abort()
			return
		}

		c.Set(ParamKey(paramName), id)
		c.Next()
	}
}

func ParamKey(paramName string) string {
	return "param:" + paramName
}
