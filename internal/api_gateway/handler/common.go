package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/api_gateway/middleware"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// callerIdentity returns the verified caller or answers 401
func callerIdentity(c *gin.Context) (shared.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		RespondUnauthorized(c, "authentication required")
		return shared.Identity{}, false
	}
	return id, true
}

// pathID parses the :id route parameter or answers 400
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// pagination binds limit/offset query parameters or answers 400
func pagination(c *gin.Context) (PaginationParams, bool) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return PaginationParams{}, false
	}
	return params.normalize(), true
}
