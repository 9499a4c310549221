package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

// FindOwned loads a course only if it belongs to userID. Callers treat
// gorm.ErrRecordNotFound as "absent or not yours" without distinguishing.
func (r *CourseRepository) FindOwned(id, userID string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ? AND user_id = ?", id, userID).Error
	return &course, err
}

// FindOwnedWithChapters additionally loads chapters in position order with
// their video-asset records, plus attachments.
func (r *CourseRepository) FindOwnedWithChapters(id, userID string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Chapters.VideoAsset").
		Preload("Attachments").
		First(&course, "id = ? AND user_id = ?", id, userID).Error
	return &course, err
}

// UpdateFields applies a partial update scoped to the owner. The returned row
// count is zero when the course is absent or owned by someone else.
func (r *CourseRepository) UpdateFields(id, userID string, values map[string]interface{}) (int64, error) {
	tx := r.DB.Model(&model.Course{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(values)
	return tx.RowsAffected, tx.Error
}

func (r *CourseRepository) SetPublished(id string, published bool) error {
	return r.DB.Model(&model.Course{}).
		Where("id = ?", id).
		Update("is_published", published).
		Error
}

// Delete removes the course and everything owned through it. The cascade is
// explicit rather than delegated to FK rules so it behaves identically on
// every supported database.
func (r *CourseRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var chapterIDs []string
		if err := tx.Model(&model.Chapter{}).
			Where("course_id = ?", id).
			Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}

		if len(chapterIDs) > 0 {
			if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.VideoAsset{}).Error; err != nil {
				return err
			}
			if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.UserProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Course{}, "id = ?", id).Error
	})
}

func (r *CourseRepository) ListByOwner(userID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// ListPublished returns the learner-facing catalog, optionally filtered by a
// title substring and a category.
func (r *CourseRepository) ListPublished(title, categoryID string) ([]model.Course, error) {
	var courses []model.Course
	q := r.DB.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position ASC")
		}).
		Where("is_published = ?", true)

	if title != "" {
		q = q.Where("title LIKE ?", "%"+title+"%")
	}
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	err := q.Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindPublished(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position ASC")
		}).
		Preload("Chapters.VideoAsset").
		Preload("Attachments").
		First(&course, "id = ? AND is_published = ?", id, true).Error
	return &course, err
}

func (r *CourseRepository) CreateAttachment(attachment *model.Attachment) error {
	return r.DB.Create(attachment).Error
}

func (r *CourseRepository) FindAttachment(id, courseID string) (*model.Attachment, error) {
	var attachment model.Attachment
	err := r.DB.First(&attachment, "id = ? AND course_id = ?", id, courseID).Error
	return &attachment, err
}

func (r *CourseRepository) DeleteAttachment(id, courseID string) error {
	return r.DB.Delete(&model.Attachment{}, "id = ? AND course_id = ?", id, courseID).Error
}
