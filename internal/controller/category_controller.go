package controller

import (
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	Categories *repository.CategoryRepository
}

func NewCategoryController(categories *repository.CategoryRepository) *CategoryController {
	return &CategoryController{Categories: categories}
}

// ListCategories godoc
// @Summary List course categories
// @Tags catalog
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.Categories.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"categories": categories})
}
