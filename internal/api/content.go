package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/nkosarev/vidgen/internal/models"
)

// Content wraps the upload, generation and content endpoints. It keeps no
// state of its own; every call maps one endpoint to a typed result.
type Content struct {
	t *Transport
}

func NewContent(t *Transport) *Content {
	return &Content{t: t}
}

// multipartBody streams a multipart form through a pipe: the file part is
// written concurrently with the request, so a large upload is never
// buffered in memory. fields are written before the file part.
func multipartBody(f models.FileRef, fields map[string]string, onProgress ProgressFunc) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			for name, value := range fields {
				if err := mw.WriteField(name, value); err != nil {
					return err
				}
			}

			part, err := mw.CreateFormFile("file", f.Name)
			if err != nil {
				return err
			}
			src, err := f.Open()
			if err != nil {
				return err
			}
			defer src.Close()

			_, err = io.Copy(part, newProgressReader(src, f.Size, onProgress))
			return err
		}()
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

// Upload sends the file to POST /upload, reporting progress as the body
// streams out.
func (c *Content) Upload(ctx context.Context, f models.FileRef, onProgress ProgressFunc) (*models.UploadResult, error) {
	body, contentType := multipartBody(f, nil, onProgress)

	resp, err := c.t.Do(ctx, http.MethodPost, "/upload", contentType, body)
	if err != nil {
		return nil, err
	}

	var res models.UploadResult
	if err := DecodeJSON(resp, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// generateResponse probes both identifier spellings the backend has used
// for POST /generate-video.
type generateResponse struct {
	ContentID string `json:"content_id"`
	VideoID   string `json:"video_id"`
}

// GenerateVideo asks the backend to render a video from the given script
// file. It returns the identifier of the generated content: content_id
// when present, video_id otherwise, "" when the response carried neither.
func (c *Content) GenerateVideo(ctx context.Context, f models.FileRef, title string) (string, error) {
	body, contentType := multipartBody(f, map[string]string{"title": title}, nil)

	resp, err := c.t.Do(ctx, http.MethodPost, "/generate-video", contentType, body)
	if err != nil {
		return "", err
	}

	var res generateResponse
	if err := DecodeJSON(resp, &res); err != nil {
		return "", err
	}
	if res.ContentID != "" {
		return res.ContentID, nil
	}
	return res.VideoID, nil
}

// Get fetches metadata for one content item.
func (c *Content) Get(ctx context.Context, contentID string) (*models.Content, error) {
	var res models.Content
	if err := c.t.GetJSON(ctx, "/content/"+url.PathEscape(contentID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// listResponse is the envelope GET /contents wraps its items in.
type listResponse struct {
	Items      []models.Content `json:"items"`
	TotalCount int              `json:"total_count"`
}

// List returns the newest content items.
func (c *Content) List(ctx context.Context) ([]models.Content, error) {
	var res listResponse
	if err := c.t.GetJSON(ctx, "/contents", &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Download streams the binary payload of GET /download/{id} into w and
// returns the number of bytes written.
func (c *Content) Download(ctx context.Context, contentID string, w io.Writer) (int64, error) {
	resp, err := c.t.Do(ctx, http.MethodGet, "/download/"+url.PathEscape(contentID), "", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, asError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("downloading %s: %w", contentID, err)
	}
	return n, nil
}

// StreamURL builds the playback URL for a content item. No request is
// made; the caller is trusted to hold a valid identifier and session.
func (c *Content) StreamURL(contentID string) string {
	return c.t.URL("/stream/" + url.PathEscape(contentID))
}

// Health checks backend liveness.
func (c *Content) Health(ctx context.Context) (*models.Health, error) {
	var res models.Health
	if err := c.t.GetJSON(ctx, "/health", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
