package utils

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var forbiddenSchemes = []string{"javascript:", "data:", "vbscript:"}

// ValidateExternalImageURL accepts only plain http(s) links to raster images
// and rejects anything that could break out of an HTML attribute.
func ValidateExternalImageURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("image URL is required")
	}

	if strings.ContainsAny(raw, "\"'<>") {
		return errors.New("image URL contains forbidden characters")
	}

	lower := strings.ToLower(raw)
	for _, scheme := range forbiddenSchemes {
		if strings.Contains(lower, scheme) {
			return errors.New("image URL uses a forbidden scheme")
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("image URL is malformed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("image URL must use http or https")
	}
	if u.Host == "" {
		return errors.New("image URL must have a host")
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if !imageExtensions[ext] {
		return errors.New("image URL must point to a jpg, jpeg, png, gif or webp file")
	}

	return nil
}

// ImageMimeTypeFromURL guesses the MIME type from the URL extension.
func ImageMimeTypeFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return ""
}
