package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChapterController struct {
	ChapterService *service.ChapterService
}

func NewChapterController(chapterService *service.ChapterService) *ChapterController {
	return &ChapterController{ChapterService: chapterService}
}

// swagger:model CreateChapterRequest
type CreateChapterRequest struct {
	Title string `json:"title" binding:"required,min=1"`
}

// CreateChapter godoc
// @Summary Create a chapter
// @Description Appends an unpublished chapter at the end of the course
// @Tags chapters
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   body body CreateChapterRequest true "chapter title"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/teacher/courses/{courseId}/chapters [post]
func (c *ChapterController) CreateChapter(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateChapterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.ChapterService.Create(claims.UserID, ctx.Param("courseId"), req.Title)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"chapter": chapter})
}

// swagger:model ReorderChaptersRequest
type ReorderChaptersRequest struct {
	List []service.ChapterPosition `json:"list" binding:"required,dive"`
}

// ReorderChapters godoc
// @Summary Reorder chapters
// @Description Writes the submitted positions one by one; a failure partway leaves earlier writes applied
// @Tags chapters
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   body body ReorderChaptersRequest true "id/position pairs"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/teacher/courses/{courseId}/chapters/reorder [put]
func (c *ChapterController) ReorderChapters(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReorderChaptersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ChapterService.Reorder(claims.UserID, ctx.Param("courseId"), req.List); err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Success"})
}

// UpdateChapter godoc
// @Summary Update chapter fields
// @Description Partial update; a submitted isPublished flag is ignored. A new videoUrl replaces the remote asset.
// @Tags chapters
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   chapterId path string true "chapter id"
// @Param   body body service.ChapterUpdateReq true "fields to change"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId}/chapters/{chapterId} [patch]
func (c *ChapterController) UpdateChapter(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ChapterUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.ChapterService.Update(ctx.Request.Context(), claims.UserID, ctx.Param("courseId"), ctx.Param("chapterId"), req)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"chapter": chapter})
}

// DeleteChapter godoc
// @Summary Delete a chapter
// @Description Removes the chapter, its progress rows and its remote video asset. Chapters without a video are left untouched. Unpublishes the course when its last published chapter goes away.
// @Tags chapters
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   chapterId path string true "chapter id"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId}/chapters/{chapterId} [delete]
func (c *ChapterController) DeleteChapter(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	chapter, err := c.ChapterService.Delete(ctx.Request.Context(), claims.UserID, ctx.Param("courseId"), ctx.Param("chapterId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deletedChapter": chapter})
}

// PublishChapter godoc
// @Summary Publish a chapter
// @Description Requires title, description, video URL and a processed video asset
// @Tags chapters
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   chapterId path string true "chapter id"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response "incomplete chapter"
// @Router /api/teacher/courses/{courseId}/chapters/{chapterId}/publish [post]
func (c *ChapterController) PublishChapter(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	chapter, err := c.ChapterService.Publish(claims.UserID, ctx.Param("courseId"), ctx.Param("chapterId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"publishedChapter": chapter})
}

// UnpublishChapter godoc
// @Summary Unpublish a chapter
// @Description Unpublishes the course too when this was its last published chapter
// @Tags chapters
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   chapterId path string true "chapter id"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId}/chapters/{chapterId}/unpublish [post]
func (c *ChapterController) UnpublishChapter(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	chapter, err := c.ChapterService.Unpublish(ctx.Request.Context(), claims.UserID, ctx.Param("courseId"), ctx.Param("chapterId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"unpublishedChapter": chapter})
}

// GetChapter godoc
// @Summary Fetch one chapter of the caller's course
// @Tags chapters
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   chapterId path string true "chapter id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId}/chapters/{chapterId} [get]
func (c *ChapterController) GetChapter(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	chapter, err := c.ChapterService.Get(claims.UserID, ctx.Param("courseId"), ctx.Param("chapterId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"chapter": chapter})
}

// swagger:model ProgressRequest
type ProgressRequest struct {
	IsCompleted bool `json:"isCompleted"`
}

// RecordProgress godoc
// @Summary Record chapter progress
// @Description Upserts the caller's completion flag for the chapter
// @Tags progress
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   chapterId path string true "chapter id"
// @Param   body body ProgressRequest true "completion flag"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/chapters/{chapterId}/progress [put]
func (c *ChapterController) RecordProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ChapterService.RecordProgress(claims.UserID, ctx.Param("chapterId"), req.IsCompleted)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"progress": progress})
}
