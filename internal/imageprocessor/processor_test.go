package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAvatar_DownscalesKeepingAspect(t *testing.T) {
	p := NewProcessor(80, 400)

	out, err := p.Avatar(bytes.NewReader(pngBytes(t, 1200, 600)))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(out)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestAvatar_DoesNotUpscale(t *testing.T) {
	p := NewProcessor(0, 0)

	out, err := p.Avatar(bytes.NewReader(pngBytes(t, 64, 32)))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(out)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestAvatar_RejectsGarbage(t *testing.T) {
	_, err := NewProcessor(85, 400).Avatar(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestDecodePNG(t *testing.T) {
	w, h, err := DecodePNG(pngBytes(t, 10, 5))
	require.NoError(t, err)
	assert.Equal(t, 10, w)
	assert.Equal(t, 5, h)

	_, _, err = DecodePNG([]byte("nope"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
