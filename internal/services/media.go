package services

// mediaExtensions is the extension each accepted media type is stored under.
var mediaExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

// ExtensionFor returns the file extension for a media type. The client's
// file name never decides how a stored file is served.
func ExtensionFor(contentType string) string {
	if ext, ok := mediaExtensions[contentType]; ok {
		return ext
	}
	return ".bin"
}
