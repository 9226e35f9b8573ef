package swap

import (
	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// ListFilter narrows swap listings. A zero RequesterID lists every swap.
type ListFilter struct {
	RequesterID uuid.UUID
	Status      shared.SwapStatus
	Limit       int
	Offset      int
}

// Normalize applies the default and maximum page size, clamps the offset
// and drops unknown status values
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if !f.Status.IsValid() {
		f.Status = ""
	}
	return f
}

// Page is one slice of a swap listing
type Page struct {
	Swaps   []*Details `json:"swaps"`
	Total   int64      `json:"total"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	HasMore bool       `json:"has_more"`
}

// NewPage assembles a page for the given normalized filter
func NewPage(swaps []*Details, total int64, f ListFilter) *Page {
	if swaps == nil {
		swaps = []*Details{}
	}
	return &Page{
		Swaps:   swaps,
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
		HasMore: int64(f.Offset+f.Limit) < total,
	}
}
