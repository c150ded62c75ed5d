package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/store"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

const defaultListLimit = 50

// pathID parses a positive numeric path parameter. On failure the error is
// recorded for middleware.ErrorHandler and ok is false.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(apperror.InvalidInput("invalid "+name,
			apperror.FieldError{Field: name, Message: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

// pageOf converts a PageQuery into a store window.
func pageOf(q types.PageQuery) store.Page {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultListLimit
	}
	return store.Page{Offset: (page - 1) * limit, Limit: limit}
}
