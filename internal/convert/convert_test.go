package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"fragments/internal/models"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestConvertIdentity(t *testing.T) {
	engine := New()
	payload := []byte("garbage \x00\x01 in")

	for _, mt := range models.SupportedMediaTypes() {
		t.Run(mt.String(), func(t *testing.T) {
			res, err := engine.Convert(payload, mt.String(), mt)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if !bytes.Equal(res.Data, payload) {
				t.Fatalf("expected payload unchanged")
			}
			if res.ContentType != mt.String() {
				t.Fatalf("expected content type %s, got %s", mt, res.ContentType)
			}
		})
	}
}

func TestConvertIdentityKeepsStoredParameters(t *testing.T) {
	res, err := New().Convert([]byte("hi"), "text/plain; charset=utf-8", models.MediaTypeUnknown)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if res.ContentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", res.ContentType)
	}
}

func TestConvertRejectsUnproducibleTarget(t *testing.T) {
	_, err := New().Convert([]byte("hi"), "text/plain", models.ImagePNG)
	var uerr *models.UnsupportedConversionError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected unsupported conversion, got %v", err)
	}
	if uerr.From != "text/plain" || uerr.To != "image/png" {
		t.Fatalf("unexpected error fields %+v", uerr)
	}
}

func TestConvertMarkdownToHTML(t *testing.T) {
	res, err := New().Convert([]byte("## H\n\nbody"), "text/markdown", models.TextHTML)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	html := string(res.Data)
	if !strings.Contains(html, "<h2>H</h2>") || !strings.Contains(html, "<p>body</p>") {
		t.Fatalf("unexpected html %q", html)
	}
	if res.ContentType != "text/html" {
		t.Fatalf("unexpected content type %q", res.ContentType)
	}
}

func TestConvertToPlainText(t *testing.T) {
	for _, from := range []string{"text/markdown", "text/html", "text/csv", "application/json", "application/yaml"} {
		t.Run(from, func(t *testing.T) {
			res, err := New().Convert([]byte("a,b"), from, models.TextPlain)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if string(res.Data) != "a,b" || res.ContentType != "text/plain" {
				t.Fatalf("unexpected result %q %q", res.Data, res.ContentType)
			}
		})
	}
}

func TestConvertCSVToJSON(t *testing.T) {
	res, err := New().Convert([]byte("name,size\nalpha,1\n\"b,eta\",2\n"), "text/csv", models.ApplicationJSON)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := `[{"name":"alpha","size":"1"},{"name":"b,eta","size":"2"}]`
	if string(res.Data) != want {
		t.Fatalf("expected %s, got %s", want, res.Data)
	}
	if !json.Valid(res.Data) {
		t.Fatal("expected valid json")
	}

	empty, err := New().Convert([]byte("name,size\n"), "text/csv", models.ApplicationJSON)
	if err != nil {
		t.Fatalf("convert header only: %v", err)
	}
	if string(empty.Data) != "[]" {
		t.Fatalf("expected empty array, got %s", empty.Data)
	}
}

func TestConvertCSVMalformed(t *testing.T) {
	_, err := New().Convert([]byte("a,b\n1,2,3\n"), "text/csv", models.ApplicationJSON)
	if !models.IsUnsupportedConversion(err) {
		t.Fatalf("expected unsupported conversion, got %v", err)
	}
}

func TestConvertJSONToYAML(t *testing.T) {
	input := `{"name":"frag","tags":["a","b"],"size":3,"ratio":0.5,"ok":true,"none":null,"ver":"1.0"}`
	res, err := New().Convert([]byte(input), "application/json", models.ApplicationYAML)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	out := string(res.Data)
	if !strings.HasPrefix(out, "name: frag\n") {
		t.Fatalf("expected key order preserved, got:\n%s", out)
	}
	if strings.Index(out, "tags:") > strings.Index(out, "size:") {
		t.Fatalf("expected tags before size, got:\n%s", out)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(res.Data, &decoded); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if decoded["ver"] != "1.0" {
		t.Fatalf("expected string 1.0 to stay a string, got %#v", decoded["ver"])
	}
	if decoded["size"] != 3 || decoded["ratio"] != 0.5 || decoded["ok"] != true || decoded["none"] != nil {
		t.Fatalf("unexpected scalars %#v", decoded)
	}
	tags, ok := decoded["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Fatalf("unexpected tags %#v", decoded["tags"])
	}
}

func TestConvertJSONToYAMLMalformed(t *testing.T) {
	for _, input := range []string{`{"a":`, `{"a":1} extra`, ``} {
		_, err := New().Convert([]byte(input), "application/json", models.ApplicationYAML)
		if !models.IsUnsupportedConversion(err) {
			t.Fatalf("%q: expected unsupported conversion, got %v", input, err)
		}
	}
}

func TestConvertImages(t *testing.T) {
	src := testPNG(t)
	engine := New()

	res, err := engine.Convert(src, "image/png", models.ImageJPEG)
	if err != nil {
		t.Fatalf("png to jpeg: %v", err)
	}
	if res.ContentType != "image/jpeg" {
		t.Fatalf("unexpected content type %q", res.ContentType)
	}
	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	res, err = engine.Convert(res.Data, "image/jpeg", models.ImageGIF)
	if err != nil {
		t.Fatalf("jpeg to gif: %v", err)
	}
	if _, err := gif.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Fatalf("decode gif: %v", err)
	}

	res, err = engine.Convert(res.Data, "image/gif", models.ImagePNG)
	if err != nil {
		t.Fatalf("gif to png: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}

func TestConvertImagesNotImplemented(t *testing.T) {
	src := testPNG(t)
	tests := []struct {
		name   string
		stored string
		target models.MediaType
	}{
		{name: "webp target", stored: "image/png", target: models.ImageWebP},
		{name: "avif target", stored: "image/png", target: models.ImageAVIF},
		{name: "avif source", stored: "image/avif", target: models.ImagePNG},
		{name: "corrupt source", stored: "image/jpeg", target: models.ImagePNG},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New().Convert(src, tc.stored, tc.target)
			if !models.IsUnsupportedConversion(err) {
				t.Fatalf("expected unsupported conversion, got %v", err)
			}
		})
	}
}

type stubRenderer struct{ called bool }

func (s *stubRenderer) Render(src []byte) ([]byte, error) {
	s.called = true
	return []byte("<stub/>"), nil
}

func TestConvertUsesInjectedRenderer(t *testing.T) {
	stub := &stubRenderer{}
	res, err := New(WithMarkdownRenderer(stub)).Convert([]byte("# x"), "text/markdown", models.TextHTML)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !stub.called || string(res.Data) != "<stub/>" {
		t.Fatalf("expected stub renderer output, got %q", res.Data)
	}
}

func TestConvertInvalidPayloadReason(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		stored  string
		target  models.MediaType
		invalid bool
	}{
		{name: "corrupt png to jpeg", data: []byte("not a png"), stored: "image/png", target: models.ImageJPEG, invalid: true},
		{name: "malformed csv", data: []byte("a,b\n1,2,3\n"), stored: "text/csv", target: models.ApplicationJSON, invalid: true},
		{name: "malformed json", data: []byte(`{"a":`), stored: "application/json", target: models.ApplicationYAML, invalid: true},
		{name: "missing encoder", data: testPNG(t), stored: "image/png", target: models.ImageWebP},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New().Convert(tc.data, tc.stored, tc.target)
			var convErr *models.UnsupportedConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("expected unsupported conversion, got %v", err)
			}
			if got := strings.HasPrefix(convErr.Reason, ErrInvalidPayload.Error()); got != tc.invalid {
				t.Fatalf("invalid payload reason = %v, want %v (reason %q)", got, tc.invalid, convErr.Reason)
			}
		})
	}
}
