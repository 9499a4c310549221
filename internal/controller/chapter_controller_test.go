package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
	gin.SetMode(gin.TestMode)
}

type stubVideoHost struct{}

func (stubVideoHost) CreateAsset(_ context.Context, _ string) (*service.VideoAssetInfo, error) {
	return &service.VideoAssetInfo{AssetID: "asset-1", PlaybackID: "pb-1"}, nil
}

func (stubVideoHost) DeleteAsset(_ context.Context, _ string) error {
	return nil
}

// newInstructorRouter wires real controllers behind a stub identity so the
// handlers, binding rules and response shapes run as in production.
func newInstructorRouter(t *testing.T) (*gin.Engine, *repository.ChapterRepository, *repository.CourseRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	courses := repository.NewCourseRepository(db)
	chapters := repository.NewChapterRepository(db)
	courseCtl := NewCourseController(service.NewCourseService(courses, chapters, stubVideoHost{}, nil))
	chapterCtl := NewChapterController(service.NewChapterService(courses, chapters, stubVideoHost{}, nil))

	r := gin.New()
	asInstructor := func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: "user-1", Role: model.Teacher})
	}

	g := r.Group("/api/teacher", asInstructor)
	g.POST("/courses", courseCtl.CreateCourse)
	g.POST("/courses/:courseId/chapters", chapterCtl.CreateChapter)
	g.PATCH("/courses/:courseId/chapters/:chapterId", chapterCtl.UpdateChapter)

	return r, chapters, courses
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateEndpointsAnswer200(t *testing.T) {
	r, _, _ := newInstructorRouter(t)

	rec := doJSON(r, http.MethodPost, "/api/teacher/courses", `{"title":"Go from scratch"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Data struct {
			Course model.Course `json:"course"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.Course.ID)

	rec = doJSON(r, http.MethodPost, "/api/teacher/courses/"+created.Data.Course.ID+"/chapters", `{"title":"Intro"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateChapterRejectsBlankFields(t *testing.T) {
	r, chapters, courses := newInstructorRouter(t)

	course := &model.Course{UserID: "user-1", Title: "Go from scratch"}
	require.NoError(t, courses.Create(course))
	chapter := &model.Chapter{CourseID: course.ID, Title: "Intro", Position: 1}
	require.NoError(t, chapters.Create(chapter))
	require.NoError(t, chapters.CreateVideoAsset(&model.VideoAsset{
		ChapterID: chapter.ID,
		AssetID:   "asset-old",
	}))

	path := "/api/teacher/courses/" + course.ID + "/chapters/" + chapter.ID

	t.Run("empty videoUrl is invalid input", func(t *testing.T) {
		rec := doJSON(r, http.MethodPatch, path, `{"videoUrl":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		// Neither the column nor the asset row may have been touched.
		fresh, err := chapters.FindByID(chapter.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, "", fresh.VideoURL)
		asset, err := chapters.FindVideoAsset(chapter.ID)
		require.NoError(t, err)
		assert.Equal(t, "asset-old", asset.AssetID)
	})

	t.Run("empty title is invalid input", func(t *testing.T) {
		rec := doJSON(r, http.MethodPatch, path, `{"title":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid videoUrl replaces the asset", func(t *testing.T) {
		rec := doJSON(r, http.MethodPatch, path, `{"videoUrl":"https://cdn.example.com/v.mp4"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		asset, err := chapters.FindVideoAsset(chapter.ID)
		require.NoError(t, err)
		assert.Equal(t, "asset-1", asset.AssetID)
	})
}
