package service

import (
	"context"
	"fmt"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// fakeVideoHost records create/delete calls instead of talking to a remote.
type fakeVideoHost struct {
	created []string
	deleted []string
	nextID  int
	fail    error
}

func (f *fakeVideoHost) CreateAsset(_ context.Context, sourceURL string) (*VideoAssetInfo, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.nextID++
	id := fmt.Sprintf("asset-%d", f.nextID)
	f.created = append(f.created, sourceURL)
	return &VideoAssetInfo{AssetID: id, PlaybackID: "pb-" + id}, nil
}

func (f *fakeVideoHost) DeleteAsset(_ context.Context, assetID string) error {
	if f.fail != nil {
		return f.fail
	}
	f.deleted = append(f.deleted, assetID)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	video    *fakeVideoHost
	courses  *repository.CourseRepository
	chapters *repository.ChapterRepository
	course   *CourseService
	chapter  *ChapterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	video := &fakeVideoHost{}
	courses := repository.NewCourseRepository(db)
	chapters := repository.NewChapterRepository(db)

	return &testEnv{
		db:       db,
		video:    video,
		courses:  courses,
		chapters: chapters,
		course:   NewCourseService(courses, chapters, video, nil),
		chapter:  NewChapterService(courses, chapters, video, nil),
	}
}

// newTestEnvWithRedis swaps the nil redis client for a miniredis-backed one so
// the catalog cache paths run for real.
func newTestEnvWithRedis(t *testing.T) (*testEnv, *miniredis.Miniredis) {
	t.Helper()

	env := newTestEnv(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	env.course = NewCourseService(env.courses, env.chapters, env.video, rdb)
	env.chapter = NewChapterService(env.courses, env.chapters, env.video, rdb)
	return env, mr
}

func (e *testEnv) seedCourse(t *testing.T, userID string, mutate func(*model.Course)) *model.Course {
	t.Helper()

	course := &model.Course{UserID: userID, Title: "Go from scratch"}
	if mutate != nil {
		mutate(course)
	}
	require.NoError(t, e.courses.Create(course))
	return course
}

func (e *testEnv) seedChapter(t *testing.T, courseID string, mutate func(*model.Chapter)) *model.Chapter {
	t.Helper()

	max, err := e.chapters.MaxPosition(courseID)
	require.NoError(t, err)

	chapter := &model.Chapter{CourseID: courseID, Title: "Intro", Position: max + 1}
	if mutate != nil {
		mutate(chapter)
	}
	require.NoError(t, e.chapters.Create(chapter))
	return chapter
}

func (e *testEnv) anyCategoryID(t *testing.T) string {
	t.Helper()

	categories, err := repository.NewCategoryRepository(e.db).List()
	require.NoError(t, err)
	require.NotEmpty(t, categories)
	return categories[0].ID
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }
