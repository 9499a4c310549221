package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogCacheKey = "catalog:published_courses"
const catalogCacheTTL = 5 * time.Minute

// invalidateCatalog drops the cached learner catalog after any mutation that
// can change which courses are visible.
func invalidateCatalog(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

type CourseService struct {
	Courses  *repository.CourseRepository
	Chapters *repository.ChapterRepository
	Video    VideoHost
	Redis    *redis.Client
}

func NewCourseService(courses *repository.CourseRepository, chapters *repository.ChapterRepository, video VideoHost, rdb *redis.Client) *CourseService {
	return &CourseService{
		Courses:  courses,
		Chapters: chapters,
		Video:    video,
		Redis:    rdb,
	}
}

type CourseUpdateReq struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	CategoryID  *string  `json:"categoryId"`
	Price       *float64 `json:"price"`
}

func (s *CourseService) Create(userID, title string) (*model.Course, error) {
	course := &model.Course{
		UserID: userID,
		Title:  title,
	}
	if err := s.Courses.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update applies a partial update scoped to the owner. A wrong owner or a
// nonexistent id both surface as a not-found, indistinguishable to the caller.
func (s *CourseService) Update(ctx context.Context, userID, courseID string, req CourseUpdateReq) (*model.Course, error) {
	values := map[string]interface{}{}
	if req.Title != nil {
		values["title"] = *req.Title
	}
	if req.Description != nil {
		values["description"] = *req.Description
	}
	if req.ImageURL != nil {
		values["image_url"] = *req.ImageURL
	}
	if req.CategoryID != nil {
		values["category_id"] = *req.CategoryID
	}
	if req.Price != nil {
		values["price"] = *req.Price
	}

	if len(values) > 0 {
		rows, err := s.Courses.UpdateFields(courseID, userID, values)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, util.ErrCourseNotFound
		}
	}

	course, err := s.Courses.FindOwned(courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	invalidateCatalog(ctx, s.Redis)
	return course, nil
}

// AddAttachment appends an attachment whose display name is the final path
// segment of the URL.
func (s *CourseService) AddAttachment(userID, courseID, url string) (*model.Attachment, error) {
	if _, err := s.Courses.FindOwned(courseID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotOwner
		}
		return nil, err
	}

	attachment := &model.Attachment{
		CourseID: courseID,
		Name:     util.FileNameFromURL(url),
		URL:      url,
	}
	if err := s.Courses.CreateAttachment(attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *CourseService) DeleteAttachment(userID, courseID, attachmentID string) (*model.Attachment, error) {
	if _, err := s.Courses.FindOwned(courseID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotOwner
		}
		return nil, err
	}

	attachment, err := s.Courses.FindAttachment(attachmentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttachmentNotFound
		}
		return nil, err
	}

	if err := s.Courses.DeleteAttachment(attachmentID, courseID); err != nil {
		return nil, err
	}
	return attachment, nil
}

// Delete removes the course. Remote video assets of its chapters are deleted
// first; a remote failure aborts the operation with the course row intact.
func (s *CourseService) Delete(ctx context.Context, userID, courseID string) (*model.Course, error) {
	course, err := s.Courses.FindOwnedWithChapters(courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	for _, chapter := range course.Chapters {
		if chapter.VideoAsset != nil && chapter.VideoAsset.AssetID != "" {
			if err := s.Video.DeleteAsset(ctx, chapter.VideoAsset.AssetID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.Courses.Delete(courseID); err != nil {
		return nil, err
	}

	invalidateCatalog(ctx, s.Redis)
	return course, nil
}

// Publish flips the course to published once title, description, cover image,
// category and at least one published chapter are all present.
func (s *CourseService) Publish(ctx context.Context, userID, courseID string) (*model.Course, error) {
	course, err := s.Courses.FindOwnedWithChapters(courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	hasPublishedChapter := false
	for _, chapter := range course.Chapters {
		if chapter.IsPublished {
			hasPublishedChapter = true
			break
		}
	}

	if course.Title == "" ||
		course.Description == "" ||
		course.ImageURL == "" ||
		course.CategoryID == nil ||
		!hasPublishedChapter {
		return nil, util.ErrIncompleteCourse
	}

	if err := s.Courses.SetPublished(courseID, true); err != nil {
		return nil, err
	}
	course.IsPublished = true

	invalidateCatalog(ctx, s.Redis)
	return course, nil
}

// Unpublish is unconditional.
func (s *CourseService) Unpublish(ctx context.Context, userID, courseID string) (*model.Course, error) {
	course, err := s.Courses.FindOwned(courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if err := s.Courses.SetPublished(courseID, false); err != nil {
		return nil, err
	}
	course.IsPublished = false

	invalidateCatalog(ctx, s.Redis)
	return course, nil
}

func (s *CourseService) ListOwned(userID string) ([]model.Course, error) {
	return s.Courses.ListByOwner(userID)
}

func (s *CourseService) GetOwned(userID, courseID string) (*model.Course, error) {
	course, err := s.Courses.FindOwnedWithChapters(courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// ListPublished serves the learner catalog. The unfiltered listing is cached
// in redis; filtered queries go straight to the store.
func (s *CourseService) ListPublished(ctx context.Context, title, categoryID string) ([]model.Course, error) {
	cacheable := title == "" && categoryID == "" && s.Redis != nil

	if cacheable {
		if val, err := s.Redis.Get(ctx, catalogCacheKey).Result(); err == nil {
			var cached []model.Course
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	courses, err := s.Courses.ListPublished(title, categoryID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if payload, err := json.Marshal(courses); err == nil {
			if err := s.Redis.Set(ctx, catalogCacheKey, payload, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}

	return courses, nil
}

// GetPublished returns a published course with its published chapters and, if
// a caller identity is present, that learner's progress rows.
func (s *CourseService) GetPublished(courseID, userID string) (*model.Course, []model.UserProgress, error) {
	course, err := s.Courses.FindPublished(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}

	var progress []model.UserProgress
	if userID != "" {
		chapterIDs := make([]string, 0, len(course.Chapters))
		for _, chapter := range course.Chapters {
			chapterIDs = append(chapterIDs, chapter.ID)
		}
		progress, err = s.Chapters.FindProgress(userID, chapterIDs)
		if err != nil {
			return nil, nil, err
		}
	}

	return course, progress, nil
}
