package session

import (
	"bytes"
	"fmt"
	"image"
	"slices"

	"github.com/disintegration/imaging"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/gate"
	"github.com/tejashwikalptaru/gospot/internal/handle"
)

// Image is a cover or portrait image. Its data loads asynchronously.
type Image struct {
	entity

	id     domain.ImageID
	format domain.ImageFormat
	data   []byte
}

func newImage(s *Session, h *handle.Strong, id domain.ImageID) *Image {
	img := &Image{id: id, format: domain.ImageFormatUnknown}
	img.init(s, h, img, img, true)
	return img
}

// Image creates the image with the given id.
func (s *Session) Image(id domain.ImageID) (*Image, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("image: %w", domain.ErrNotLoaded)
	}
	return gate.Value(s.gate, func() (*Image, error) {
		sraw, err := s.raw()
		if err != nil {
			return nil, err
		}
		h, err := handle.Adopt(s.gate, s.native, domain.KindImage, s.native.ImageCreate(sraw, id))
		if err != nil {
			return nil, err
		}
		return newImage(s, h, id), nil
	})
}

func (img *Image) load(_ *harvest, raw domain.Handle) {
	info := img.s.native.ImageInfo(raw)
	img.commitLoaded(func() {
		if !info.ID.IsZero() {
			img.id = info.ID
		}
		img.format = info.Format
		img.data = slices.Clone(info.Data)
	})
}

// clear keeps the id; it is known before the data loads.
func (img *Image) clear() {
	img.commitCleared(func() {
		img.format = domain.ImageFormatUnknown
		img.data = nil
	})
}

func (img *Image) children() []Entity { return nil }

// ID returns the image id.
func (img *Image) ID() domain.ImageID {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.id
}

// Format returns the encoding of Data.
func (img *Image) Format() domain.ImageFormat {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.format
}

// Data returns a copy of the encoded image.
func (img *Image) Data() []byte {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return slices.Clone(img.data)
}

// Decode decodes the image data.
func (img *Image) Decode() (image.Image, error) {
	img.mu.RLock()
	data := img.data
	loaded := img.loaded
	img.mu.RUnlock()

	if !loaded || len(data) == 0 {
		return nil, fmt.Errorf("decode image: %w", domain.ErrNotLoaded)
	}
	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return decoded, nil
}

// Thumbnail decodes the image and scales and crops it to exactly width by height.
func (img *Image) Thumbnail(width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, domain.NewValidationError("size", fmt.Sprintf("%dx%d", width, height), "thumbnail size must be positive")
	}
	decoded, err := img.Decode()
	if err != nil {
		return nil, err
	}
	return imaging.Thumbnail(decoded, width, height, imaging.Lanczos), nil
}

// Link creates a link to the image.
func (img *Image) Link() (*Link, error) {
	return img.s.linkFrom(&img.entity, domain.LinkOptions{})
}
