package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/internal/middleware"
	"github.com/weddingflow/weddingflow/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

func GetParamID(ctx *gin.Context, name string) (uint, error) {
	idStr := ctx.Param(name)

	if idStr == "" {
		return 0, errors.New("Missing " + name)
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + name)
	}

	return uint(id), nil
}

// ParseDateQuery reads an optional YYYY-MM-DD query parameter.
func ParseDateQuery(ctx *gin.Context, name string) (*time.Time, error) {
	value := ctx.Query(name)

	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse("2006-01-02", value)

	if err != nil {
		return nil, errors.New("Invalid " + name + ", expected YYYY-MM-DD")
	}

	return &parsed, nil
}
