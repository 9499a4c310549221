package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const uploadProgressTTL = 30 * time.Minute

// ContentService handles file ingestion: chapter videos, course cover images
// and attachments. Videos are probed and thumbnailed locally before landing
// in storage; upload state is mirrored into redis so clients can poll it.
type ContentService struct {
	Storage *StorageService
	Redis   *redis.Client
}

func NewContentService(storage *StorageService, rdb *redis.Client) *ContentService {
	return &ContentService{
		Storage: storage,
		Redis:   rdb,
	}
}

type VideoUploadResult struct {
	UploadID     string  `json:"uploadId"`
	URL          string  `json:"url"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	Duration     float64 `json:"duration"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Format       string  `json:"format"`
	Size         int64   `json:"size"`
}

func (s *ContentService) setUploadProgress(ctx context.Context, uploadID, stage string) {
	if s.Redis == nil {
		return
	}
	key := "upload:progress:" + uploadID
	if err := s.Redis.Set(ctx, key, stage, uploadProgressTTL).Err(); err != nil {
		logger.Log.Warn("upload progress write failed", zap.String("upload_id", uploadID), zap.Error(err))
	}
}

// UploadProgress reports the last recorded stage of an upload, "" when the
// upload is unknown or expired.
func (s *ContentService) UploadProgress(ctx context.Context, uploadID string) string {
	if s.Redis == nil {
		return ""
	}
	stage, err := s.Redis.Get(ctx, "upload:progress:"+uploadID).Result()
	if err != nil {
		return ""
	}
	return stage
}

// UploadVideo stages the file on local disk, probes it, grabs a thumbnail and
// pushes both into storage. Probe or thumbnail failures are non-fatal; the
// video still uploads.
func (s *ContentService) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*VideoUploadResult, error) {
	if !util.HasAllowedExtension(file.Filename, util.AllowedVideoExtensions) {
		return nil, util.ErrInvalidVideoExt
	}

	uploadID := util.GenerateRandomString(16)
	s.setUploadProgress(ctx, uploadID, "staging")

	tmpDir := os.TempDir()
	ext := strings.ToLower(filepath.Ext(file.Filename))
	tmpPath := filepath.Join(tmpDir, uploadID+ext)

	if err := stageMultipart(file, tmpPath); err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	result := &VideoUploadResult{UploadID: uploadID}

	s.setUploadProgress(ctx, uploadID, "probing")
	if info, err := util.GetVideoInfo(tmpPath); err == nil {
		result.Duration = info.Duration
		result.Width = info.Width
		result.Height = info.Height
		result.Format = info.Format
		result.Size = info.Size
	} else {
		logger.Log.Warn("video probe failed", zap.String("upload_id", uploadID), zap.Error(err))
	}

	thumbPath := filepath.Join(tmpDir, uploadID+".jpg")
	thumbOK := false
	if err := util.GenerateThumbnail(tmpPath, thumbPath, "00:00:01"); err == nil {
		thumbOK = true
		defer os.Remove(thumbPath)
	} else {
		logger.Log.Warn("thumbnail generation failed", zap.String("upload_id", uploadID), zap.Error(err))
	}

	s.setUploadProgress(ctx, uploadID, "uploading")
	objectName := fmt.Sprintf("videos/%s%s", uploadID, ext)
	url, err := s.Storage.UploadFile(ctx, objectName, tmpPath, "video/"+strings.TrimPrefix(ext, "."))
	if err != nil {
		s.setUploadProgress(ctx, uploadID, "failed")
		return nil, err
	}
	result.URL = url

	if thumbOK {
		thumbName := fmt.Sprintf("thumbnails/%s.jpg", uploadID)
		if thumbURL, err := s.Storage.UploadFile(ctx, thumbName, thumbPath, "image/jpeg"); err == nil {
			result.ThumbnailURL = thumbURL
		} else {
			logger.Log.Warn("thumbnail upload failed", zap.String("upload_id", uploadID), zap.Error(err))
		}
	}

	s.setUploadProgress(ctx, uploadID, "done")
	return result, nil
}

// UploadImage validates the file is a real image by sniffing its content, then
// stores it under images/.
func (s *ContentService) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if !util.HasAllowedExtension(file.Filename, util.AllowedImageExtensions) {
		return "", util.ErrInvalidImageExt
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", util.ErrInvalidImageExt
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectName := fmt.Sprintf("images/%s%s", util.GenerateRandomString(16), ext)
	return s.Storage.Upload(ctx, objectName, src, file.Size, mimeType)
}

// UploadAttachment accepts any file type; the original filename is kept in the
// object path so it survives as the attachment display name.
func (s *ContentService) UploadAttachment(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	safeName := filepath.Base(file.Filename)
	objectName := fmt.Sprintf("attachments/%s/%s", util.GenerateRandomString(12), safeName)
	return s.Storage.Upload(ctx, objectName, src, file.Size, util.MimeOctetStream)
}

func stageMultipart(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		return err
	}
	return nil
}
