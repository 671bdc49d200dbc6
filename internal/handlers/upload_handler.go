package handlers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"draperads/internal/events"
	"draperads/internal/metrics"
	"draperads/internal/suggest"
	"draperads/internal/utils/logger"
)

// MaxUploadSize is the largest accepted media file.
const MaxUploadSize = 10 << 20

const (
	SuggestionOK          = "ok"
	SuggestionUnavailable = "unavailable"
	SuggestionSkipped     = "skipped"
)

var allowedMedia = map[string]string{
	"image/jpeg":      "image",
	"image/png":       "image",
	"image/gif":       "image",
	"image/webp":      "image",
	"video/mp4":       "video",
	"video/quicktime": "video",
	"video/webm":      "video",
}

type UploadHandler struct {
	storage  MediaStorage
	analyzer ImageAnalyzer
	log      *logger.Logger
}

func NewUploadHandler(storage MediaStorage, analyzer ImageAnalyzer) *UploadHandler {
	return &UploadHandler{
		storage:  storage,
		analyzer: analyzer,
		log:      logger.New("upload_handler"),
	}
}

// UploadResponse describes a stored file. The suggested fields are empty
// unless SuggestionStatus is ok.
type UploadResponse struct {
	URL                  string `json:"url"`
	Filename             string `json:"filename"`
	Mimetype             string `json:"mimetype"`
	SuggestedHeadline    string `json:"suggestedHeadline"`
	SuggestedPrimaryText string `json:"suggestedPrimaryText"`
	SuggestedDescription string `json:"suggestedDescription"`
	SuggestedCTA         string `json:"suggestedCta"`
	SuggestionStatus     string `json:"suggestionStatus"`
}

func mediaKind(contentType string) (string, string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", false
	}
	mediaType = strings.ToLower(mediaType)
	kind, ok := allowedMedia[mediaType]
	return mediaType, kind, ok
}

// UploadMedia stores an image or video and suggests ad copy for images
// @Summary Upload media
// @Description Upload an image or video (max 10MB). Images are analyzed for ad copy suggestions
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param media formData file true "Image or video"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} map[string]string "Missing, oversized or unsupported file"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/upload [post]
func (h *UploadHandler) UploadMedia(c echo.Context) error {
	file, err := c.FormFile("media")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}

	if file.Size > MaxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "File too large. Maximum size is 10MB")
	}

	mimeType, kind, ok := mediaKind(file.Header.Get(echo.HeaderContentType))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Only image and video files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return h.log.Error("Failed to open upload", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return h.log.Error("Failed to read upload", err)
	}
	if len(data) > MaxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "File too large. Maximum size is 10MB")
	}

	// The declared type is client input; the bytes must agree with it.
	if detected := mimetype.Detect(data); !detected.Is(mimeType) {
		h.log.Warn("Rejected upload %q: declared %s, content is %s", file.Filename, mimeType, detected.String())
		return echo.NewHTTPError(http.StatusBadRequest, "File content does not match its type")
	}

	ctx := c.Request().Context()
	url, name, err := h.storage.Save(ctx, data, file.Filename, mimeType)
	if err != nil {
		return h.log.Error("Failed to store upload", err)
	}
	metrics.MediaUploads.WithLabelValues(kind).Inc()

	resp := UploadResponse{
		URL:              url,
		Filename:         name,
		Mimetype:         mimeType,
		SuggestionStatus: SuggestionSkipped,
	}

	if kind == "image" {
		resp.SuggestionStatus = SuggestionUnavailable
		if h.analyzer != nil && h.analyzer.Enabled() {
			if s := h.analyzer.AnalyzeImage(ctx, data, mimeType); s.Available {
				resp.SuggestionStatus = SuggestionOK
				resp.applySuggestions(s)
			}
		}
	}
	metrics.Suggestions.WithLabelValues(resp.SuggestionStatus).Inc()

	events.Emit(events.MediaUploaded, resp)
	h.log.Success("Media uploaded: %s (%s)", url, resp.SuggestionStatus)
	return c.JSON(http.StatusOK, resp)
}

func (r *UploadResponse) applySuggestions(s suggest.Suggestions) {
	r.SuggestedHeadline = s.Headline
	r.SuggestedPrimaryText = s.PrimaryText
	r.SuggestedDescription = s.Description
	r.SuggestedCTA = s.CTA
}
