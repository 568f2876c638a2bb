package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseMediaType(t *testing.T) {
	got, err := ParseMediaType(" Text/Plain; charset=utf-8 ")
	if err != nil {
		t.Fatalf("parse media type: %v", err)
	}
	if got != TextPlain {
		t.Fatalf("expected %v, got %v", TextPlain, got)
	}

	for _, raw := range []string{"", "text/rtf", "application/xml", "image/bmp", "not a type", "text/"} {
		if _, err := ParseMediaType(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestIsSupportedType(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "text/plain", want: true},
		{raw: "text/plain; charset=utf-8", want: true},
		{raw: "text/markdown", want: true},
		{raw: "application/json", want: true},
		{raw: "application/yaml", want: true},
		{raw: "image/avif", want: true},
		{raw: "application/yml", want: false},
		{raw: "application/octet-stream", want: false},
		{raw: "text/plain;;;", want: false},
		{raw: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := IsSupportedType(tt.raw); got != tt.want {
				t.Fatalf("IsSupportedType(%q)=%v want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatsContainStoredType(t *testing.T) {
	for _, mediaType := range SupportedMediaTypes() {
		formats := Formats(mediaType)
		if len(formats) == 0 {
			t.Fatalf("expected formats for %v", mediaType)
		}
		if !CanProduce(mediaType, mediaType) {
			t.Fatalf("expected %v to produce itself, formats=%v", mediaType, formats)
		}
	}
}

func TestFormatsTable(t *testing.T) {
	tests := []struct {
		stored MediaType
		want   []string
	}{
		{stored: TextPlain, want: []string{"text/plain"}},
		{stored: TextMarkdown, want: []string{"text/markdown", "text/html", "text/plain"}},
		{stored: TextHTML, want: []string{"text/html", "text/plain"}},
		{stored: TextCSV, want: []string{"text/csv", "text/plain", "application/json"}},
		{stored: ApplicationJSON, want: []string{"application/json", "application/yaml", "text/plain"}},
		{stored: ApplicationYAML, want: []string{"application/yaml", "text/plain"}},
		{stored: ImageGIF, want: []string{"image/png", "image/jpeg", "image/webp", "image/gif", "image/avif"}},
	}

	for _, tt := range tests {
		t.Run(tt.stored.String(), func(t *testing.T) {
			got := MediaTypeStrings(Formats(tt.stored))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatsForSubtypeUnknown(t *testing.T) {
	got := FormatsForSubtype("rtf")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil formats, got %#v", got)
	}
	if got := FormatsForSubtype("markdown"); len(got) != 3 {
		t.Fatalf("expected 3 markdown formats, got %v", got)
	}
}

func TestMediaTypeAccessors(t *testing.T) {
	if !TextCSV.IsText() || TextCSV.IsImage() || TextCSV.IsApplication() {
		t.Fatal("text/csv namespace predicates are wrong")
	}
	if !ApplicationYAML.IsApplication() {
		t.Fatal("expected application/yaml to be application")
	}
	if !ImageWebP.IsImage() {
		t.Fatal("expected image/webp to be image")
	}
	if ImageJPEG.Subtype() != "jpeg" {
		t.Fatalf("expected jpeg subtype, got %q", ImageJPEG.Subtype())
	}
	if MediaTypeForSubtype("yaml") != ApplicationYAML {
		t.Fatal("expected yaml subtype lookup")
	}
}

func TestMediaTypeForExtension(t *testing.T) {
	tests := map[string]MediaType{
		"txt":  TextPlain,
		"md":   TextMarkdown,
		"HTML": TextHTML,
		"yml":  ApplicationYAML,
		"jpg":  ImageJPEG,
		"avif": ImageAVIF,
	}
	for ext, want := range tests {
		got, ok := MediaTypeForExtension(ext)
		if !ok || got != want {
			t.Fatalf("MediaTypeForExtension(%q)=%v,%v want %v", ext, got, ok, want)
		}
	}
	if _, ok := MediaTypeForExtension("exe"); ok {
		t.Fatal("expected unknown extension")
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("save: %w", WrapStorage("local", "put", StorageKey("u1", "f1"), cause))
	if !IsStorage(wrapped) {
		t.Fatal("expected storage error")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected storage error to unwrap to cause")
	}
	if WrapStorage("local", "put", "k", nil) != nil {
		t.Fatal("expected nil for nil cause")
	}

	if !IsNotFound(&NotFoundError{OwnerID: "u1", ID: "f1"}) {
		t.Fatal("expected not found")
	}
	if !IsValidation(NewValidationError("size", "must be >= 0")) {
		t.Fatal("expected validation")
	}
	if !IsUnsupportedConversion(&UnsupportedConversionError{From: "text/plain", To: "image/png"}) {
		t.Fatal("expected unsupported conversion")
	}
}
