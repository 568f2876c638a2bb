package models

import (
	"fmt"
	"log/slog"
	"mime"
	"strings"
)

// MediaType enumerates the fragment types the service stores and produces.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	TextPlain
	TextMarkdown
	TextHTML
	TextCSV
	ApplicationJSON
	ApplicationYAML
	ImagePNG
	ImageJPEG
	ImageWebP
	ImageAVIF
	ImageGIF
)

const (
	NamespaceText        = "text"
	NamespaceApplication = "application"
	NamespaceImage       = "image"
)

var supportedMediaTypes = []MediaType{
	TextPlain,
	TextMarkdown,
	TextHTML,
	TextCSV,
	ApplicationJSON,
	ApplicationYAML,
	ImagePNG,
	ImageJPEG,
	ImageWebP,
	ImageAVIF,
	ImageGIF,
}

var mediaTypesByName = func() map[string]MediaType {
	out := make(map[string]MediaType, len(supportedMediaTypes))
	for _, t := range supportedMediaTypes {
		out[t.String()] = t
	}
	return out
}()

var mediaTypesByExtension = map[string]MediaType{
	"txt":  TextPlain,
	"md":   TextMarkdown,
	"html": TextHTML,
	"csv":  TextCSV,
	"json": ApplicationJSON,
	"yaml": ApplicationYAML,
	"yml":  ApplicationYAML,
	"png":  ImagePNG,
	"jpg":  ImageJPEG,
	"jpeg": ImageJPEG,
	"webp": ImageWebP,
	"avif": ImageAVIF,
	"gif":  ImageGIF,
}

// String returns the base MIME type, e.g. "text/markdown".
func (t MediaType) String() string {
	switch t {
	case TextPlain:
		return "text/plain"
	case TextMarkdown:
		return "text/markdown"
	case TextHTML:
		return "text/html"
	case TextCSV:
		return "text/csv"
	case ApplicationJSON:
		return "application/json"
	case ApplicationYAML:
		return "application/yaml"
	case ImagePNG:
		return "image/png"
	case ImageJPEG:
		return "image/jpeg"
	case ImageWebP:
		return "image/webp"
	case ImageAVIF:
		return "image/avif"
	case ImageGIF:
		return "image/gif"
	case MediaTypeUnknown:
		return ""
	}
	return ""
}

// Namespace returns the portion before the slash.
func (t MediaType) Namespace() string {
	switch t {
	case TextPlain, TextMarkdown, TextHTML, TextCSV:
		return NamespaceText
	case ApplicationJSON, ApplicationYAML:
		return NamespaceApplication
	case ImagePNG, ImageJPEG, ImageWebP, ImageAVIF, ImageGIF:
		return NamespaceImage
	case MediaTypeUnknown:
		return ""
	}
	return ""
}

// Subtype returns the portion after the slash, e.g. "markdown".
func (t MediaType) Subtype() string {
	name := t.String()
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

func (t MediaType) IsText() bool        { return t.Namespace() == NamespaceText }
func (t MediaType) IsApplication() bool { return t.Namespace() == NamespaceApplication }
func (t MediaType) IsImage() bool       { return t.Namespace() == NamespaceImage }

// SupportedMediaTypes returns the fixed set of storable types.
func SupportedMediaTypes() []MediaType {
	out := make([]MediaType, len(supportedMediaTypes))
	copy(out, supportedMediaTypes)
	return out
}

// ParseMediaType parses a Content-Type value, ignoring parameters such as
// charset, and returns the supported type it names.
func ParseMediaType(raw string) (MediaType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MediaTypeUnknown, fmt.Errorf("media type is required")
	}
	base, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return MediaTypeUnknown, fmt.Errorf("invalid media type %q: %w", raw, err)
	}
	t, ok := mediaTypesByName[strings.ToLower(base)]
	if !ok {
		return MediaTypeUnknown, fmt.Errorf("unsupported media type: %s", base)
	}
	return t, nil
}

// IsSupportedType reports whether raw parses to a supported base type.
func IsSupportedType(raw string) bool {
	_, err := ParseMediaType(raw)
	return err == nil
}

// MediaTypeForExtension maps a file extension (without the dot) to a type.
func MediaTypeForExtension(ext string) (MediaType, bool) {
	t, ok := mediaTypesByExtension[strings.ToLower(strings.TrimSpace(ext))]
	return t, ok
}

// MediaTypeForSubtype looks a supported type up by its subtype alone.
func MediaTypeForSubtype(subtype string) MediaType {
	subtype = strings.ToLower(strings.TrimSpace(subtype))
	for _, t := range supportedMediaTypes {
		if t.Subtype() == subtype {
			return t
		}
	}
	return MediaTypeUnknown
}

// Formats returns the ordered output types a stored type can be represented
// as. The first entry is always the stored type itself.
func Formats(t MediaType) []MediaType {
	switch t {
	case TextPlain:
		return []MediaType{TextPlain}
	case TextMarkdown:
		return []MediaType{TextMarkdown, TextHTML, TextPlain}
	case TextHTML:
		return []MediaType{TextHTML, TextPlain}
	case TextCSV:
		return []MediaType{TextCSV, TextPlain, ApplicationJSON}
	case ApplicationJSON:
		return []MediaType{ApplicationJSON, ApplicationYAML, TextPlain}
	case ApplicationYAML:
		return []MediaType{ApplicationYAML, TextPlain}
	case ImagePNG, ImageJPEG, ImageWebP, ImageAVIF, ImageGIF:
		return []MediaType{ImagePNG, ImageJPEG, ImageWebP, ImageGIF, ImageAVIF}
	case MediaTypeUnknown:
		return nil
	}
	return nil
}

// FormatsForSubtype is the string form of Formats keyed by subtype. An
// unknown subtype yields an empty list and is logged.
func FormatsForSubtype(subtype string) []string {
	t := MediaTypeForSubtype(subtype)
	if t == MediaTypeUnknown {
		slog.Default().Error("unknown fragment subtype", "subtype", subtype)
		return []string{}
	}
	return MediaTypeStrings(Formats(t))
}

// CanProduce reports whether stored can be represented as target.
func CanProduce(stored, target MediaType) bool {
	for _, t := range Formats(stored) {
		if t == target {
			return true
		}
	}
	return false
}

func MediaTypeStrings(values []MediaType) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, value.String())
	}
	return out
}
