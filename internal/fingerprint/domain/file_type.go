package domain

import (
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
)

// FileType identifies the container format of a file.
type FileType string

const (
	PDF FileType = "PDF"
	PNG FileType = "PNG"
	TXT FileType = "TXT"
)

// ParseFileType parses a format name ("pdf", "PNG", ...), a file extension
// (".txt") or a MIME type ("application/pdf", "text/plain; charset=utf-8").
// Matching is case-insensitive.
func ParseFileType(s string) (FileType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if mediaType, _, err := mime.ParseMediaType(v); err == nil && strings.Contains(mediaType, "/") {
		v = mediaType
	}

	switch {
	case v == "pdf" || v == ".pdf" || v == "application/pdf" || v == "application/x-pdf":
		return PDF, nil
	case v == "png" || v == ".png" || v == "image/png":
		return PNG, nil
	case v == "txt" || v == ".txt" || v == "text" || strings.HasPrefix(v, "text/"):
		return TXT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, s)
	}
}

// DetectFileType picks a file type from a file name, falling back to the
// content type when the extension is unknown.
func DetectFileType(filename, contentType string) (FileType, error) {
	if ext := filepath.Ext(filename); ext != "" {
		if ft, err := ParseFileType(ext); err == nil {
			return ft, nil
		}
	}
	if contentType != "" {
		return ParseFileType(contentType)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, filename)
}

// Extension returns the canonical file extension including the dot.
func (f FileType) Extension() string {
	return "." + strings.ToLower(string(f))
}

// ContentType returns the MIME type served for the file type.
func (f FileType) ContentType() string {
	switch f {
	case PDF:
		return "application/pdf"
	case PNG:
		return "image/png"
	case TXT:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// CopyFilename names a marked copy "<name>_<copy><ext>". The original's
// directory is dropped (both slash styles) and its extension kept when it has
// one; otherwise the file type's extension is used.
func CopyFilename(original string, copyRef uint64, fileType FileType) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = fileType.Extension()
	}
	if name == "" {
		name = "document"
	}
	return name + "_" + strconv.FormatUint(copyRef, 10) + ext
}
