package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lms_backend/internal/config"
	"lms_backend/pkg/monitoring"
)

// VideoAssetInfo carries the identifiers the remote host assigns to a
// transcoded asset.
type VideoAssetInfo struct {
	AssetID    string
	PlaybackID string
}

// VideoHost is the bridge to the remote transcoding provider. Create requests
// a public-playback asset for a source URL; Delete removes one. Failures
// propagate unchanged and abort the enclosing operation.
type VideoHost interface {
	CreateAsset(ctx context.Context, sourceURL string) (*VideoAssetInfo, error)
	DeleteAsset(ctx context.Context, assetID string) error
}

// VideoService talks to a Mux-compatible REST API with basic auth.
type VideoService struct {
	Cfg    *config.VideoConfig
	Client *http.Client
}

func NewVideoService(cfg *config.Config) *VideoService {
	return &VideoService{
		Cfg: &cfg.Video,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type createAssetRequest struct {
	Input          string   `json:"input"`
	PlaybackPolicy []string `json:"playback_policy"`
	Test           bool     `json:"test"`
}

type createAssetResponse struct {
	Data struct {
		ID          string `json:"id"`
		PlaybackIDs []struct {
			ID string `json:"id"`
		} `json:"playback_ids"`
	} `json:"data"`
}

func (s *VideoService) CreateAsset(ctx context.Context, sourceURL string) (*VideoAssetInfo, error) {
	payload, err := json.Marshal(createAssetRequest{
		Input:          sourceURL,
		PlaybackPolicy: []string{"public"},
		Test:           false,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Cfg.BaseURL+"/video/v1/assets", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.Cfg.TokenID, s.Cfg.TokenSecret)

	resp, err := s.Client.Do(req)
	if err != nil {
		monitoring.VideoAssetOps.WithLabelValues("create", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.VideoAssetOps.WithLabelValues("create", "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("video host: create asset returned %d: %s", resp.StatusCode, body)
	}

	var out createAssetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	info := &VideoAssetInfo{AssetID: out.Data.ID}
	if len(out.Data.PlaybackIDs) > 0 {
		info.PlaybackID = out.Data.PlaybackIDs[0].ID
	}

	monitoring.VideoAssetOps.WithLabelValues("create", "ok").Inc()
	return info, nil
}

func (s *VideoService) DeleteAsset(ctx context.Context, assetID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.Cfg.BaseURL+"/video/v1/assets/"+assetID, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.Cfg.TokenID, s.Cfg.TokenSecret)

	resp, err := s.Client.Do(req)
	if err != nil {
		monitoring.VideoAssetOps.WithLabelValues("delete", "error").Inc()
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// A 404 means the asset is already gone on the remote side.
	if resp.StatusCode < 200 || (resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound) {
		monitoring.VideoAssetOps.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("video host: delete asset returned %d", resp.StatusCode)
	}

	monitoring.VideoAssetOps.WithLabelValues("delete", "ok").Inc()
	return nil
}
