package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/http/middleware"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

// getUserID достаёт id вызывающего, положенный AuthMiddleware.
func getUserID(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// pathUUID возвращает параметр пути, уже разобранный UUIDValidator, либо разбирает его сам.
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	if v, ok := c.Get(middleware.ParamKey(name)); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, nil
		}
	}
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeBadRequest, "параметр "+name+" должен быть валидным UUID")
	}
	return id, nil
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
