package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/webp"

	"fragments/internal/models"
)

const defaultJPEGQuality = 90

// StdImageCodec decodes png, jpeg, gif and webp, and encodes png, jpeg and gif.
type StdImageCodec struct {
	JPEGQuality int
}

func NewImageCodec() *StdImageCodec {
	return &StdImageCodec{JPEGQuality: defaultJPEGQuality}
}

func (c *StdImageCodec) Convert(data []byte, from, to models.MediaType) ([]byte, error) {
	img, err := decodeImage(data, from)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch to {
	case models.ImagePNG:
		err = png.Encode(&buf, img)
	case models.ImageJPEG:
		quality := c.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = defaultJPEGQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case models.ImageGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("encode %s: %w", to, ErrNotImplemented)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", to, err)
	}
	return buf.Bytes(), nil
}

func decodeImage(data []byte, from models.MediaType) (image.Image, error) {
	r := bytes.NewReader(data)
	var (
		img image.Image
		err error
	)
	switch from {
	case models.ImagePNG:
		img, err = png.Decode(r)
	case models.ImageJPEG:
		img, err = jpeg.Decode(r)
	case models.ImageGIF:
		img, err = gif.Decode(r)
	case models.ImageWebP:
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("decode %s: %w", from, ErrNotImplemented)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidPayload, from, err)
	}
	return img, nil
}
