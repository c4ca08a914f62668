package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngo-connect/api-go/services"
)

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

func newPagination(page, size int, total int64) *PaginationMeta {
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return &PaginationMeta{
		CurrentPage: page,
		PageSize:    size,
		TotalItems:  total,
		TotalPages:  pages,
	}
}

// respondError maps service error kinds to HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error(), "success": false})
}
