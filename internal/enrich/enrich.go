// Package enrich decorates a resolved location with map links and YouTube
// travel videos. Video search is best-effort: its failure never fails the
// request that asked for it.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/weatherwatch/weather-watch/internal/httpcall"
)

var errNoYouTubeKey = errors.New("youtube api key is not configured")

const maxVideoResults = 5

// VideoSummary is one YouTube search hit.
type VideoSummary struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

// LocationInfo is the merged enrichment result. MapsEmbed is present only
// when a Google key is configured; YouTubeVideos is empty, never nil, when
// the search is unavailable.
type LocationInfo struct {
	MapsURL       string         `json:"mapsUrl"`
	MapsEmbed     string         `json:"mapsEmbed,omitempty"`
	YouTubeVideos []VideoSummary `json:"youtubeVideos"`
}

type Service struct {
	youtubeBaseURL string
	googleKey      string
	youtubeKey     string
	httpCfg        httpcall.Config
	circuit        *gobreaker.CircuitBreaker
	log            *zap.SugaredLogger
}

func NewService(client *http.Client, youtubeBaseURL, googleKey, youtubeKey string, log *zap.SugaredLogger) *Service {
	return &Service{
		youtubeBaseURL: youtubeBaseURL,
		googleKey:      googleKey,
		youtubeKey:     youtubeKey,
		httpCfg:        httpcall.Config{Client: client},
		circuit:        httpcall.NewBreaker("youtube"),
		log:            log,
	}
}

// Enrich fans out to the auxiliary sources and merges what succeeded. The
// video-search error case is intentionally discarded here: partial failure
// of this optional enrichment degrades the result to an empty list.
func (s *Service) Enrich(ctx context.Context, locationText string, lat, lon *float64) LocationInfo {
	info := LocationInfo{
		MapsURL:       MapsURL(locationText, lat, lon),
		MapsEmbed:     s.mapsEmbed(locationText, lat, lon),
		YouTubeVideos: []VideoSummary{},
	}

	videos, err := s.searchVideos(ctx, locationText)
	if err != nil {
		s.log.Warnw("video search unavailable", "location", locationText, "error", err)
		return info
	}
	info.YouTubeVideos = videos
	return info
}

// MapsURL builds a Google Maps link from coordinates when available,
// otherwise from the location text. Pure string construction.
func MapsURL(locationText string, lat, lon *float64) string {
	if lat != nil && lon != nil {
		return fmt.Sprintf("https://www.google.com/maps?q=%g,%g", *lat, *lon)
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(locationText)
}

func (s *Service) mapsEmbed(locationText string, lat, lon *float64) string {
	if s.googleKey == "" {
		return ""
	}
	q := url.QueryEscape(locationText)
	if lat != nil && lon != nil {
		q = fmt.Sprintf("%g,%g", *lat, *lon)
	}
	return fmt.Sprintf("https://www.google.com/maps/embed/v1/place?key=%s&q=%s", s.googleKey, q)
}

func (s *Service) searchVideos(ctx context.Context, locationText string) ([]VideoSummary, error) {
	if s.youtubeKey == "" {
		return nil, errNoYouTubeKey
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("part", "snippet")
		values.Set("q", fmt.Sprintf("%s city travel guide", locationText))
		values.Set("maxResults", fmt.Sprintf("%d", maxVideoResults))
		values.Set("type", "video")
		values.Set("key", s.youtubeKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", s.youtubeBaseURL, values.Encode()), nil)
	}

	resp, err := httpcall.Do(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Thumbnails  struct {
					Default struct {
						URL string `json:"url"`
					} `json:"default"`
				} `json:"thumbnails"`
				ChannelTitle string `json:"channelTitle"`
				PublishedAt  string `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	videos := make([]VideoSummary, 0, len(payload.Items))
	for _, item := range payload.Items {
		videos = append(videos, VideoSummary{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    item.Snippet.Thumbnails.Default.URL,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}
