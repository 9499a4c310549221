package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title string `json:"title" binding:"required,min=1"`
}

// CreateCourse godoc
// @Summary Create a draft course
// @Description Creates an unpublished course owned by the caller; only the title is set
// @Tags courses
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateCourseRequest true "course title"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims.UserID, req.Title)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"course": course})
}

// UpdateCourse godoc
// @Summary Update course fields
// @Description Partial update of title, description, image, category or price
// @Tags courses
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   body body service.CourseUpdateReq true "fields to change"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId} [patch]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), claims.UserID, ctx.Param("courseId"), req)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"course": course})
}

// swagger:model AddAttachmentRequest
type AddAttachmentRequest struct {
	URL string `json:"url" binding:"required"`
}

// AddAttachment godoc
// @Summary Attach a file URL to a course
// @Description The attachment's display name is derived from the URL's last path segment
// @Tags courses
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   body body AddAttachmentRequest true "attachment URL"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /api/teacher/courses/{courseId}/attachments [post]
func (c *CourseController) AddAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddAttachmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attachment, err := c.CourseService.AddAttachment(claims.UserID, ctx.Param("courseId"), req.URL)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attachment": attachment})
}

// DeleteAttachment godoc
// @Summary Remove a course attachment
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Param   attachmentId path string true "attachment id"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId}/attachments/{attachmentId} [delete]
func (c *CourseController) DeleteAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attachment, err := c.CourseService.DeleteAttachment(claims.UserID, ctx.Param("courseId"), ctx.Param("attachmentId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attachment": attachment})
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Removes the course, its chapters, attachments, progress rows and remote video assets
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.Delete(ctx.Request.Context(), claims.UserID, ctx.Param("courseId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deletedCourse": course})
}

// PublishCourse godoc
// @Summary Publish a course
// @Description Requires title, description, cover image, category and at least one published chapter
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "incomplete course"
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId}/publish [post]
func (c *CourseController) PublishCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.Publish(ctx.Request.Context(), claims.UserID, ctx.Param("courseId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"publishedCourse": course})
}

// UnpublishCourse godoc
// @Summary Unpublish a course
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId}/unpublish [post]
func (c *CourseController) UnpublishCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.Unpublish(ctx.Request.Context(), claims.UserID, ctx.Param("courseId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"unpublishedCourse": course})
}

// ListOwnedCourses godoc
// @Summary List the caller's courses
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/teacher/courses [get]
func (c *CourseController) ListOwnedCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListOwned(claims.UserID)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"courses": courses})
}

// GetOwnedCourse godoc
// @Summary Fetch one of the caller's courses with chapters and attachments
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "course id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{courseId} [get]
func (c *CourseController) GetOwnedCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.GetOwned(claims.UserID, ctx.Param("courseId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"course": course})
}

// ListCourses godoc
// @Summary Browse the published catalog
// @Description Optional title and categoryId query filters
// @Tags catalog
// @Produce  json
// @Param   title query string false "title substring"
// @Param   categoryId query string false "category id"
// @Success 200 {object} util.Response{data=object}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListPublished(ctx.Request.Context(), ctx.Query("title"), ctx.Query("categoryId"))
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"courses": courses})
}

// GetCourse godoc
// @Summary Fetch a published course
// @Description Published chapters and attachments; progress rows when the caller is signed in
// @Tags catalog
// @Produce  json
// @Param   courseId path string true "course id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	userID := ""
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	course, progress, err := c.CourseService.GetPublished(ctx.Param("courseId"), userID)
	if err != nil {
		util.FromServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"course":   course,
		"progress": progress,
	})
}
