package service

import (
	"context"
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type ChapterService struct {
	Courses  *repository.CourseRepository
	Chapters *repository.ChapterRepository
	Video    VideoHost
	Redis    *redis.Client
}

func NewChapterService(courses *repository.CourseRepository, chapters *repository.ChapterRepository, video VideoHost, rdb *redis.Client) *ChapterService {
	return &ChapterService{
		Courses:  courses,
		Chapters: chapters,
		Video:    video,
		Redis:    rdb,
	}
}

type ChapterPosition struct {
	ID       string `json:"id" binding:"required"`
	Position int    `json:"position"`
}

// ChapterUpdateReq carries a partial update. The string fields may be omitted
// but not blanked: a present-but-empty title or video URL is invalid input, so
// a chapter can never end up with a cleared video column and a live asset row.
type ChapterUpdateReq struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	VideoURL    *string `json:"videoUrl" binding:"omitempty,min=1"`
	IsFree      *bool   `json:"isFree"`
	IsPublished *bool   `json:"isPublished"`
}

// requireOwner rejects callers that do not own the course. A missing course is
// reported the same way as a foreign one.
func (s *ChapterService) requireOwner(courseID, userID string) error {
	if _, err := s.Courses.FindOwned(courseID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotOwner
		}
		return err
	}
	return nil
}

// Create appends a chapter at the end of the course.
func (s *ChapterService) Create(userID, courseID, title string) (*model.Chapter, error) {
	if err := s.requireOwner(courseID, userID); err != nil {
		return nil, err
	}

	max, err := s.Chapters.MaxPosition(courseID)
	if err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		CourseID: courseID,
		Title:    title,
		Position: max + 1,
	}
	if err := s.Chapters.Create(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// Reorder writes the given positions one row at a time. A failure partway
// leaves the earlier writes in place.
func (s *ChapterService) Reorder(userID, courseID string, list []ChapterPosition) error {
	if err := s.requireOwner(courseID, userID); err != nil {
		return err
	}

	for _, item := range list {
		if err := s.Chapters.UpdatePosition(item.ID, item.Position); err != nil {
			return err
		}
	}
	return nil
}

// Update applies a partial update. A submitted isPublished flag is ignored;
// publish state only changes through Publish and Unpublish. A new video URL
// replaces the remote asset: the old asset and its record are deleted before
// the new one is created.
func (s *ChapterService) Update(ctx context.Context, userID, courseID, chapterID string, req ChapterUpdateReq) (*model.Chapter, error) {
	if err := s.requireOwner(courseID, userID); err != nil {
		return nil, err
	}

	values := map[string]interface{}{}
	if req.Title != nil {
		values["title"] = *req.Title
	}
	if req.Description != nil {
		values["description"] = *req.Description
	}
	if req.VideoURL != nil {
		values["video_url"] = *req.VideoURL
	}
	if req.IsFree != nil {
		values["is_free"] = *req.IsFree
	}

	if len(values) > 0 {
		rows, err := s.Chapters.UpdateFields(chapterID, courseID, values)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, util.ErrChapterNotFound
		}
	} else {
		if _, err := s.Chapters.FindByID(chapterID, courseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrChapterNotFound
			}
			return nil, err
		}
	}

	if req.VideoURL != nil && *req.VideoURL != "" {
		existing, err := s.Chapters.FindVideoAsset(chapterID)
		if err == nil {
			if err := s.Video.DeleteAsset(ctx, existing.AssetID); err != nil {
				return nil, err
			}
			if err := s.Chapters.DeleteVideoAsset(existing.ID); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		info, err := s.Video.CreateAsset(ctx, *req.VideoURL)
		if err != nil {
			return nil, err
		}
		asset := &model.VideoAsset{
			ChapterID:  chapterID,
			AssetID:    info.AssetID,
			PlaybackID: info.PlaybackID,
		}
		if err := s.Chapters.CreateVideoAsset(asset); err != nil {
			return nil, err
		}
	}

	chapter, err := s.Chapters.FindByID(chapterID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}
	return chapter, nil
}

// Get returns one chapter of a course the caller owns, with its video asset
// if one exists.
func (s *ChapterService) Get(userID, courseID, chapterID string) (*model.Chapter, error) {
	if err := s.requireOwner(courseID, userID); err != nil {
		return nil, err
	}

	chapter, err := s.Chapters.FindByID(chapterID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}

	if asset, err := s.Chapters.FindVideoAsset(chapterID); err == nil {
		chapter.VideoAsset = asset
	}
	return chapter, nil
}

// Delete removes a chapter. Chapters without a video URL are left untouched
// and (nil, nil) is returned. When the last published chapter of a published
// course goes away the course is unpublished too.
func (s *ChapterService) Delete(ctx context.Context, userID, courseID, chapterID string) (*model.Chapter, error) {
	if err := s.requireOwner(courseID, userID); err != nil {
		return nil, err
	}

	chapter, err := s.Chapters.FindByID(chapterID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}

	if chapter.VideoURL == "" {
		return nil, nil
	}

	asset, err := s.Chapters.FindVideoAsset(chapterID)
	if err == nil {
		if err := s.Video.DeleteAsset(ctx, asset.AssetID); err != nil {
			return nil, err
		}
		if err := s.Chapters.DeleteVideoAsset(asset.ID); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.Chapters.Delete(chapterID); err != nil {
		return nil, err
	}

	count, err := s.Chapters.CountPublished(courseID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.Courses.SetPublished(courseID, false); err != nil {
			return nil, err
		}
		invalidateCatalog(ctx, s.Redis)
	}

	return chapter, nil
}

// Publish flips the chapter to published once title, description, video URL
// and the remote video asset are all present.
func (s *ChapterService) Publish(userID, courseID, chapterID string) (*model.Chapter, error) {
	if err := s.requireOwner(courseID, userID); err != nil {
		return nil, err
	}

	chapter, err := s.Chapters.FindByID(chapterID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrIncompleteChapter
		}
		return nil, err
	}

	if _, err := s.Chapters.FindVideoAsset(chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrIncompleteChapter
		}
		return nil, err
	}

	if chapter.Title == "" || chapter.Description == "" || chapter.VideoURL == "" {
		return nil, util.ErrIncompleteChapter
	}

	if err := s.Chapters.SetPublished(chapterID, true); err != nil {
		return nil, err
	}
	chapter.IsPublished = true
	return chapter, nil
}

// Unpublish hides the chapter; if it was the course's last published chapter
// the course is unpublished as well.
func (s *ChapterService) Unpublish(ctx context.Context, userID, courseID, chapterID string) (*model.Chapter, error) {
	if err := s.requireOwner(courseID, userID); err != nil {
		return nil, err
	}

	chapter, err := s.Chapters.FindByID(chapterID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}

	if err := s.Chapters.SetPublished(chapterID, false); err != nil {
		return nil, err
	}
	chapter.IsPublished = false

	count, err := s.Chapters.CountPublished(courseID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.Courses.SetPublished(courseID, false); err != nil {
			return nil, err
		}
		invalidateCatalog(ctx, s.Redis)
	}

	return chapter, nil
}

// RecordProgress upserts the learner's completion flag. Any authenticated
// user may record progress on any chapter.
func (s *ChapterService) RecordProgress(userID, chapterID string, isCompleted bool) (*model.UserProgress, error) {
	if _, err := s.Chapters.FindAnyByID(chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}
	return s.Chapters.UpsertProgress(userID, chapterID, isCompleted)
}
