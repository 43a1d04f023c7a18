package dtos

import "github.com/tropay/tenant-service/shared/go-utils"

// ListResponse is the paginated envelope used by every list endpoint.
type ListResponse[T any] struct {
	Data       []T              `json:"data"`
	Pagination utils.Pagination `json:"pagination"`
}

func NewListResponse[T any](items []T, page utils.Page, total int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items, Pagination: utils.NewPagination(page, total)}
}
