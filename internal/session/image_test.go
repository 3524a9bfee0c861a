package session_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/domain"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestImage_LoadAndDecode(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	id := domain.ImageID{0x01, 0x02, 0x03}
	img, err := f.s.Image(id)
	require.NoError(t, err)
	defer img.Close()

	assert.Equal(t, id, img.ID())
	assert.False(t, img.IsLoaded())
	assert.Equal(t, domain.ImageFormatUnknown, img.Format())
	_, err = img.Decode()
	require.ErrorIs(t, err, domain.ErrNotLoaded)

	completions := 0
	img.OnLoaded(func() { completions++ })

	data := jpegBytes(t, 64, 32)
	f.lib.MarkLoaded(img.Handle(), domain.ImageInfo{ID: id, Format: domain.ImageFormatJPEG, Data: data})
	f.process(t)

	assert.Equal(t, 1, completions)
	assert.Equal(t, domain.ImageFormatJPEG, img.Format())
	assert.Equal(t, data, img.Data())

	decoded, err := img.Decode()
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())

	thumb, err := img.Thumbnail(16, 16)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), thumb.Bounds())

	_, err = img.Thumbnail(0, 16)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestImage_SharedByID(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	id := domain.ImageID{0x42}
	a, err := f.s.Image(id)
	require.NoError(t, err)
	defer a.Close()
	b, err := f.s.Image(id)
	require.NoError(t, err)
	defer b.Close()

	assert.True(t, a.Equal(b))

	_, err = f.s.Image(domain.ImageID{})
	require.ErrorIs(t, err, domain.ErrNotLoaded)
}

func TestAlbum_Cover(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	cover := domain.ImageID{0xc0, 0x7e}
	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Selected", Cover: cover}, true)
	album := f.album(t, raw)
	assert.Equal(t, cover, album.CoverID())

	img, err := album.CoverImage()
	require.NoError(t, err)
	defer img.Close()
	assert.Equal(t, cover, img.ID())

	l, err := album.CoverLink(domain.ImageSizeLarge)
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, domain.LinkImage, l.Type())
	assert.Equal(t, "spotify:image:"+cover.String(), l.String())

	fromLink, err := l.AsImage()
	require.NoError(t, err)
	defer fromLink.Close()
	assert.True(t, fromLink.Equal(img))
}
