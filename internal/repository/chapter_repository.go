package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChapterRepository struct {
	DB *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{DB: db}
}

func (r *ChapterRepository) Create(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *ChapterRepository) FindByID(id, courseID string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.First(&chapter, "id = ? AND course_id = ?", id, courseID).Error
	return &chapter, err
}

func (r *ChapterRepository) FindAnyByID(id string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.First(&chapter, "id = ?", id).Error
	return &chapter, err
}

// MaxPosition returns the highest position in the course, 0 when empty.
func (r *ChapterRepository) MaxPosition(courseID string) (int, error) {
	var max int
	err := r.DB.Model(&model.Chapter{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// UpdateFields applies a partial update scoped to the parent course. Returns
// the affected row count so callers can detect a missing chapter.
func (r *ChapterRepository) UpdateFields(id, courseID string, values map[string]interface{}) (int64, error) {
	tx := r.DB.Model(&model.Chapter{}).
		Where("id = ? AND course_id = ?", id, courseID).
		Updates(values)
	return tx.RowsAffected, tx.Error
}

// UpdatePosition writes one row of a reorder. Reorders are applied row by row
// without a wrapping transaction; a failure mid-list leaves earlier rows as
// already written.
func (r *ChapterRepository) UpdatePosition(id string, position int) error {
	return r.DB.Model(&model.Chapter{}).
		Where("id = ?", id).
		Update("position", position).
		Error
}

func (r *ChapterRepository) SetPublished(id string, published bool) error {
	return r.DB.Model(&model.Chapter{}).
		Where("id = ?", id).
		Update("is_published", published).
		Error
}

// Delete removes the chapter together with its progress rows. The video-asset
// record is deleted separately by the service, after the remote asset.
func (r *ChapterRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", id).Delete(&model.UserProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chapter{}, "id = ?", id).Error
	})
}

func (r *ChapterRepository) CountPublished(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&count).Error
	return count, err
}

func (r *ChapterRepository) FindVideoAsset(chapterID string) (*model.VideoAsset, error) {
	var asset model.VideoAsset
	err := r.DB.First(&asset, "chapter_id = ?", chapterID).Error
	return &asset, err
}

func (r *ChapterRepository) CreateVideoAsset(asset *model.VideoAsset) error {
	return r.DB.Create(asset).Error
}

func (r *ChapterRepository) DeleteVideoAsset(id string) error {
	return r.DB.Delete(&model.VideoAsset{}, "id = ?", id).Error
}

// UpsertProgress writes the learner's completion flag for a chapter, keyed by
// (user, chapter).
func (r *ChapterRepository) UpsertProgress(userID, chapterID string, isCompleted bool) (*model.UserProgress, error) {
	progress := model.UserProgress{
		UserID:      userID,
		ChapterID:   chapterID,
		IsCompleted: isCompleted,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_completed", "updated_at"}),
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}

	var saved model.UserProgress
	if err := r.DB.First(&saved, "user_id = ? AND chapter_id = ?", userID, chapterID).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ChapterRepository) FindProgress(userID string, chapterIDs []string) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	if len(chapterIDs) == 0 {
		return progress, nil
	}
	err := r.DB.
		Where("user_id = ? AND chapter_id IN ?", userID, chapterIDs).
		Find(&progress).Error
	return progress, err
}
