package handler

import (
	"github.com/rewear/swap-platform/internal/domain/swap"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// RegisterRequest represents a request to create a member account
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

// LoginRequest represents a credential exchange
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateItemForm holds the text fields of a multipart item upload.
// Images arrive as repeated "images" file parts.
type CreateItemForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	Category    string `form:"category" binding:"required"`
	Condition   string `form:"condition" binding:"required"`
	Size        string `form:"size" binding:"required"`
	PointsValue int64  `form:"points_value" binding:"required,gt=0"`
}

// UpdateItemRequest holds optional edits; status is not client-editable
type UpdateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Condition   *string `json:"condition"`
	Size        *string `json:"size"`
	PointsValue *int64  `json:"points_value" binding:"omitempty,gt=0"`
}

// SwapRequest represents a request to redeem points for an item
type SwapRequest struct {
	ItemID  string `json:"item_id" binding:"required,uuid"`
	Message string `json:"message"`
}

// SwapListResponse is one page of the caller's swaps
type SwapListResponse struct {
	Swaps      []*swap.Details `json:"swaps"`
	Pagination MetaInfo        `json:"pagination"`
}

// FileReportRequest represents a spam report
type FileReportRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
	Content    string `json:"content" binding:"required"`
	Severity   string `json:"severity"`
}

// SetUserStatusRequest suspends or reactivates a member
type SetUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE SUSPENDED"`
}

// AdjustPointsRequest credits (positive) or debits (negative) a member
type AdjustPointsRequest struct {
	Delta int64  `json:"delta" binding:"required,ne=0"`
	Note  string `json:"note"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// normalize applies the default and maximum page size
func (p PaginationParams) normalize() PaginationParams {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func newSwapListResponse(page *swap.Page) SwapListResponse {
	return SwapListResponse{
		Swaps: page.Swaps,
		Pagination: MetaInfo{
			Total:   page.Total,
			Limit:   page.Limit,
			Offset:  page.Offset,
			HasMore: page.HasMore,
		},
	}
}
