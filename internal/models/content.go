package models

// Content is one item of backend content metadata, as returned by
// GET /content/{id} and GET /contents.
type Content struct {
	ContentID         string   `json:"content_id"`
	UploaderID        string   `json:"uploader_id,omitempty"`
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	ContentType       string   `json:"content_type,omitempty"`
	DurationMS        int64    `json:"duration_ms,omitempty"`
	UploadedAt        float64  `json:"uploaded_at,omitempty"`
	AuthenticityScore float64  `json:"authenticity_score,omitempty"`
	Tags              []string `json:"current_tags,omitempty"`
	Views             int64    `json:"views,omitempty"`
	Likes             int64    `json:"likes,omitempty"`
	Shares            int64    `json:"shares,omitempty"`
	DownloadURL       string   `json:"download_url,omitempty"`
	StreamURL         string   `json:"stream_url,omitempty"`
}

// UploadResult is the response to POST /upload.
type UploadResult struct {
	ContentID   string `json:"content_id"`
	Message     string `json:"message,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// Health is the liveness payload from GET /health.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
