package utils

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// AllowedDocumentTypes lists the MIME types accepted for identity documents
var AllowedDocumentTypes = []string{
	"image/jpeg",
	"image/png",
	"application/pdf",
}

// IsAllowedDocumentType reports whether mimeType is an accepted document type
func IsAllowedDocumentType(mimeType string) bool {
	mimeType = NormalizeMimeType(mimeType)
	for _, allowed := range AllowedDocumentTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// NormalizeMimeType lower-cases a media type and strips its parameters
func NormalizeMimeType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(mimeType)
	}
	return mediaType
}

// ResolveMimeType returns the declared type of a picked file, falling back
// to sniffing its content when the caller declared nothing useful.
func ResolveMimeType(declared string, data []byte) string {
	declared = NormalizeMimeType(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if len(data) == 0 {
		return declared
	}
	return NormalizeMimeType(mimetype.Detect(data).String())
}
