package integrations

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeNRGBA(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	out, ok := img.(*image.NRGBA)
	require.True(t, ok, "expected NRGBA, got %T", img)
	return out
}

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRemoveBackgroundMagentaKey(t *testing.T) {
	img := filled(4, 4, color.NRGBA{255, 0, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{200, 60, 220, 255}) // distance ~86: keyed out
	img.SetNRGBA(2, 2, color.NRGBA{40, 200, 40, 255})  // the character

	out, err := RemoveBackground(encodePNG(t, img), ChromaOptions{})
	require.NoError(t, err)

	result := decodeNRGBA(t, out)
	assert.Equal(t, uint8(0), result.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), result.NRGBAAt(3, 3).A)
	assert.Equal(t, uint8(0), result.NRGBAAt(1, 1).A)
	assert.Equal(t, color.NRGBA{40, 200, 40, 255}, result.NRGBAAt(2, 2))
}

func TestRemoveBackgroundConservativeKey(t *testing.T) {
	img := filled(3, 1, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{240, 240, 245, 255}) // distance ~20
	img.SetNRGBA(2, 0, color.NRGBA{230, 230, 230, 255}) // distance ~43

	out, err := RemoveBackground(encodePNG(t, img), ChromaOptions{})
	require.NoError(t, err)

	result := decodeNRGBA(t, out)
	assert.Equal(t, uint8(0), result.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), result.NRGBAAt(1, 0).A)
	assert.Equal(t, uint8(255), result.NRGBAAt(2, 0).A)
}

func TestRemoveBackgroundAcceptsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, filled(8, 8, color.NRGBA{255, 0, 255, 255}), &jpeg.Options{Quality: 95}))

	out, err := RemoveBackground(buf.Bytes(), ChromaOptions{})
	require.NoError(t, err)
	result := decodeNRGBA(t, out)
	assert.Equal(t, uint8(0), result.NRGBAAt(4, 4).A)
}

func TestRemoveBackgroundDownscales(t *testing.T) {
	img := filled(10, 20, color.NRGBA{0, 0, 255, 255})

	out, err := RemoveBackground(encodePNG(t, img), ChromaOptions{MaxHeight: 10})
	require.NoError(t, err)
	result := decodeNRGBA(t, out)
	assert.Equal(t, 5, result.Bounds().Dx())
	assert.Equal(t, 10, result.Bounds().Dy())

	out, err = RemoveBackground(encodePNG(t, img), ChromaOptions{MaxHeight: 40})
	require.NoError(t, err)
	assert.Equal(t, 20, decodeNRGBA(t, out).Bounds().Dy())
}

func TestRemoveBackgroundRejectsGarbage(t *testing.T) {
	_, err := RemoveBackground([]byte("not an image"), ChromaOptions{})
	assert.Error(t, err)
}

func TestRemoveBackgroundDataURL(t *testing.T) {
	img := filled(2, 2, color.NRGBA{255, 0, 255, 255})
	src := EncodeDataURL(encodePNG(t, img), "image/png")
	assert.True(t, IsDataURL(src))

	out, err := RemoveBackgroundDataURL(src, ChromaOptions{})
	require.NoError(t, err)

	data, contentType, err := DecodeDataURL(out)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, uint8(0), decodeNRGBA(t, data).NRGBAAt(1, 1).A)

	_, err = RemoveBackgroundDataURL("https://example.com/a.png", ChromaOptions{})
	assert.Error(t, err)
}
