package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// UploadVideo godoc
// @Summary Upload a chapter video
// @Description Accepts a multipart video file, probes it and generates a thumbnail; returns the stored URL for use as a chapter's videoUrl
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "video file"
// @Success 200 {object} util.Response{data=service.VideoUploadResult}
// @Failure 400 {object} util.Response "unsupported file type"
// @Router /api/upload/video [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	result, err := c.ContentService.UploadVideo(ctx.Request.Context(), file)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// UploadImage godoc
// @Summary Upload a course cover image
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "image file"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "unsupported file type"
// @Router /api/upload/image [post]
func (c *ContentController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.ContentService.UploadImage(ctx.Request.Context(), file)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// UploadAttachment godoc
// @Summary Upload a course attachment
// @Description Any file type; the returned URL keeps the original filename as its last path segment
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "attachment file"
// @Success 200 {object} util.Response{data=object}
// @Router /api/upload/attachment [post]
func (c *ContentController) UploadAttachment(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.ContentService.UploadAttachment(ctx.Request.Context(), file)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// UploadProgress godoc
// @Summary Poll the stage of a video upload
// @Tags uploads
// @Produce  json
// @Security ApiKeyAuth
// @Param   uploadId path string true "upload id"
// @Success 200 {object} util.Response{data=object}
// @Router /api/upload/progress/{uploadId} [get]
func (c *ContentController) UploadProgress(ctx *gin.Context) {
	stage := c.ContentService.UploadProgress(ctx.Request.Context(), ctx.Param("uploadId"))
	if stage == "" {
		util.NotFound(ctx, "unknown upload")
		return
	}

	util.Success(ctx, gin.H{"stage": stage})
}
