package service

import (
	"context"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChapter(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, "user-1", nil)

	t.Run("first chapter lands at position 1", func(t *testing.T) {
		chapter, err := env.chapter.Create("user-1", course.ID, "Intro")
		require.NoError(t, err)
		assert.Equal(t, 1, chapter.Position)
		assert.False(t, chapter.IsPublished)
	})

	t.Run("next chapter appends", func(t *testing.T) {
		chapter, err := env.chapter.Create("user-1", course.ID, "Setup")
		require.NoError(t, err)
		assert.Equal(t, 2, chapter.Position)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		_, err := env.chapter.Create("user-2", course.ID, "Hijack")
		assert.ErrorIs(t, err, util.ErrNotOwner)
	})
}

func TestReorderChapters(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, "user-1", nil)
	first := env.seedChapter(t, course.ID, nil)
	second := env.seedChapter(t, course.ID, nil)

	err := env.chapter.Reorder("user-1", course.ID, []ChapterPosition{
		{ID: first.ID, Position: 2},
		{ID: second.ID, Position: 1},
	})
	require.NoError(t, err)

	swapped, err := env.chapters.FindByID(first.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, swapped.Position)

	assert.ErrorIs(t,
		env.chapter.Reorder("user-2", course.ID, nil),
		util.ErrNotOwner)
}

func TestUpdateChapter(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, "user-1", nil)
	chapter := env.seedChapter(t, course.ID, nil)
	ctx := context.Background()

	t.Run("isPublished is ignored", func(t *testing.T) {
		updated, err := env.chapter.Update(ctx, "user-1", course.ID, chapter.ID, ChapterUpdateReq{
			Title:       strPtr("Renamed"),
			IsPublished: boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.False(t, updated.IsPublished)
	})

	t.Run("video url creates a remote asset", func(t *testing.T) {
		updated, err := env.chapter.Update(ctx, "user-1", course.ID, chapter.ID, ChapterUpdateReq{
			VideoURL: strPtr("https://cdn.example.com/v1.mp4"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/v1.mp4", updated.VideoURL)

		asset, err := env.chapters.FindVideoAsset(chapter.ID)
		require.NoError(t, err)
		assert.Equal(t, "asset-1", asset.AssetID)
		assert.Equal(t, "pb-asset-1", asset.PlaybackID)
	})

	t.Run("replacing the video deletes the old asset first", func(t *testing.T) {
		_, err := env.chapter.Update(ctx, "user-1", course.ID, chapter.ID, ChapterUpdateReq{
			VideoURL: strPtr("https://cdn.example.com/v2.mp4"),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"asset-1"}, env.video.deleted)
		asset, err := env.chapters.FindVideoAsset(chapter.ID)
		require.NoError(t, err)
		assert.Equal(t, "asset-2", asset.AssetID)
	})

	t.Run("unknown chapter", func(t *testing.T) {
		_, err := env.chapter.Update(ctx, "user-1", course.ID, "missing", ChapterUpdateReq{
			Title: strPtr("x"),
		})
		assert.ErrorIs(t, err, util.ErrChapterNotFound)
	})
}

func TestDeleteChapter(t *testing.T) {
	ctx := context.Background()

	t.Run("chapter without video is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		course := env.seedCourse(t, "user-1", nil)
		chapter := env.seedChapter(t, course.ID, nil)

		deleted, err := env.chapter.Delete(ctx, "user-1", course.ID, chapter.ID)
		require.NoError(t, err)
		assert.Nil(t, deleted)

		still, err := env.chapters.FindByID(chapter.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, chapter.ID, still.ID)
	})

	t.Run("deletes rows and remote asset", func(t *testing.T) {
		env := newTestEnv(t)
		course := env.seedCourse(t, "user-1", nil)
		chapter := env.seedChapter(t, course.ID, func(ch *model.Chapter) {
			ch.VideoURL = "https://cdn.example.com/v.mp4"
		})
		require.NoError(t, env.chapters.CreateVideoAsset(&model.VideoAsset{
			ChapterID: chapter.ID,
			AssetID:   "asset-x",
		}))
		_, err := env.chapters.UpsertProgress("learner-1", chapter.ID, true)
		require.NoError(t, err)

		deleted, err := env.chapter.Delete(ctx, "user-1", course.ID, chapter.ID)
		require.NoError(t, err)
		assert.Equal(t, chapter.ID, deleted.ID)
		assert.Equal(t, []string{"asset-x"}, env.video.deleted)

		var progressCount int64
		env.db.Model(&model.UserProgress{}).Where("chapter_id = ?", chapter.ID).Count(&progressCount)
		assert.Zero(t, progressCount)
	})

	t.Run("last published chapter unpublishes the course", func(t *testing.T) {
		env := newTestEnv(t)
		course := env.seedCourse(t, "user-1", func(c *model.Course) { c.IsPublished = true })
		chapter := env.seedChapter(t, course.ID, func(ch *model.Chapter) {
			ch.VideoURL = "https://cdn.example.com/v.mp4"
			ch.IsPublished = true
		})

		_, err := env.chapter.Delete(ctx, "user-1", course.ID, chapter.ID)
		require.NoError(t, err)

		fresh, err := env.courses.FindOwned(course.ID, "user-1")
		require.NoError(t, err)
		assert.False(t, fresh.IsPublished)
	})
}

func TestPublishChapter(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, "user-1", nil)

	t.Run("missing video asset rejected", func(t *testing.T) {
		chapter := env.seedChapter(t, course.ID, func(ch *model.Chapter) {
			ch.Description = "desc"
			ch.VideoURL = "https://cdn.example.com/v.mp4"
		})

		_, err := env.chapter.Publish("user-1", course.ID, chapter.ID)
		assert.ErrorIs(t, err, util.ErrIncompleteChapter)
	})

	t.Run("missing description rejected", func(t *testing.T) {
		chapter := env.seedChapter(t, course.ID, func(ch *model.Chapter) {
			ch.VideoURL = "https://cdn.example.com/v.mp4"
		})
		require.NoError(t, env.chapters.CreateVideoAsset(&model.VideoAsset{
			ChapterID: chapter.ID, AssetID: "a", PlaybackID: "p",
		}))

		_, err := env.chapter.Publish("user-1", course.ID, chapter.ID)
		assert.ErrorIs(t, err, util.ErrIncompleteChapter)
	})

	t.Run("complete chapter publishes", func(t *testing.T) {
		chapter := env.seedChapter(t, course.ID, func(ch *model.Chapter) {
			ch.Description = "desc"
			ch.VideoURL = "https://cdn.example.com/v.mp4"
		})
		require.NoError(t, env.chapters.CreateVideoAsset(&model.VideoAsset{
			ChapterID: chapter.ID, AssetID: "a", PlaybackID: "p",
		}))

		published, err := env.chapter.Publish("user-1", course.ID, chapter.ID)
		require.NoError(t, err)
		assert.True(t, published.IsPublished)
	})
}

func TestUnpublishChapter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.seedCourse(t, "user-1", func(c *model.Course) { c.IsPublished = true })
	first := env.seedChapter(t, course.ID, func(ch *model.Chapter) { ch.IsPublished = true })
	second := env.seedChapter(t, course.ID, func(ch *model.Chapter) { ch.IsPublished = true })

	_, err := env.chapter.Unpublish(ctx, "user-1", course.ID, first.ID)
	require.NoError(t, err)

	fresh, err := env.courses.FindOwned(course.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, fresh.IsPublished, "course keeps its state while a published chapter remains")

	_, err = env.chapter.Unpublish(ctx, "user-1", course.ID, second.ID)
	require.NoError(t, err)

	fresh, err = env.courses.FindOwned(course.ID, "user-1")
	require.NoError(t, err)
	assert.False(t, fresh.IsPublished, "losing the last published chapter unpublishes the course")
}

func TestRecordProgress(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, "user-1", nil)
	chapter := env.seedChapter(t, course.ID, nil)

	progress, err := env.chapter.RecordProgress("learner-1", chapter.ID, true)
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)

	// Upsert, not insert: the same pair flips in place.
	progress, err = env.chapter.RecordProgress("learner-1", chapter.ID, false)
	require.NoError(t, err)
	assert.False(t, progress.IsCompleted)

	var count int64
	env.db.Model(&model.UserProgress{}).
		Where("user_id = ? AND chapter_id = ?", "learner-1", chapter.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)

	_, err = env.chapter.RecordProgress("learner-1", "missing", true)
	assert.ErrorIs(t, err, util.ErrChapterNotFound)
}
