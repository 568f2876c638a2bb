// Package convert turns a fragment payload into another producible type.
package convert

import (
	"errors"
	"strings"

	"fragments/internal/models"
)

// MarkdownRenderer renders markdown source to HTML.
type MarkdownRenderer interface {
	Render(src []byte) ([]byte, error)
}

// ImageCodec re-encodes an image payload from one image type to another.
type ImageCodec interface {
	Convert(data []byte, from, to models.MediaType) ([]byte, error)
}

var (
	// ErrNotImplemented marks a conversion a collaborator cannot perform.
	ErrNotImplemented = errors.New("conversion not implemented")
	// ErrInvalidPayload marks stored bytes that do not parse as their own type.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Result is a converted payload and the Content-Type to serve it with.
type Result struct {
	Data        []byte
	ContentType string
}

// Engine dispatches conversions by source and target type.
type Engine struct {
	markdown MarkdownRenderer
	images   ImageCodec
}

type Option func(*Engine)

func WithMarkdownRenderer(r MarkdownRenderer) Option {
	return func(e *Engine) {
		if r != nil {
			e.markdown = r
		}
	}
}

func WithImageCodec(c ImageCodec) Option {
	return func(e *Engine) {
		if c != nil {
			e.images = c
		}
	}
}

// New builds an engine with the goldmark renderer and the standard image codec.
func New(opts ...Option) *Engine {
	e := &Engine{
		markdown: NewGoldmarkRenderer(),
		images:   NewImageCodec(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Convert produces data, stored as storedType, in the target type. A zero
// target or one equal to the stored base type returns data unchanged with
// the stored Content-Type.
func (e *Engine) Convert(data []byte, storedType string, target models.MediaType) (Result, error) {
	from, err := models.ParseMediaType(storedType)
	if err != nil {
		return Result{}, &models.UnsupportedConversionError{From: storedType, To: target.String(), Reason: err.Error()}
	}
	if target == models.MediaTypeUnknown || target == from {
		return Result{Data: data, ContentType: strings.TrimSpace(storedType)}, nil
	}
	if !models.CanProduce(from, target) {
		return Result{}, &models.UnsupportedConversionError{From: from.String(), To: target.String()}
	}

	out, err := e.dispatch(data, from, target)
	if err != nil {
		return Result{}, &models.UnsupportedConversionError{From: from.String(), To: target.String(), Reason: err.Error()}
	}
	return Result{Data: out, ContentType: target.String()}, nil
}

func (e *Engine) dispatch(data []byte, from, to models.MediaType) ([]byte, error) {
	switch {
	case to == models.TextPlain && (from.IsText() || from.IsApplication()):
		return data, nil
	case from == models.TextMarkdown && to == models.TextHTML:
		return e.markdown.Render(data)
	case from == models.TextCSV && to == models.ApplicationJSON:
		return csvToJSON(data)
	case from == models.ApplicationJSON && to == models.ApplicationYAML:
		return jsonToYAML(data)
	case from.IsImage() && to.IsImage():
		return e.images.Convert(data, from, to)
	}
	return nil, ErrNotImplemented
}
