package integrations

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/vincent-petithory/dataurl"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Key distances below which a pixel is made transparent. Generated portraits
// are drawn on magenta, which tolerates a much wider band.
const (
	MagentaThreshold = 100.0
	DefaultThreshold = 30.0
)

type ChromaOptions struct {
	// MaxHeight downscales taller images, keeping the aspect ratio. Zero
	// keeps the original size.
	MaxHeight int
}

// RemoveBackground keys out the background of an image. The top-left pixel
// is the key colour; every pixel closer to it than the threshold, in
// Euclidean RGB distance, becomes fully transparent. The result is a PNG.
func RemoveBackground(data []byte, options ChromaOptions) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("empty image")
	}
	img := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Src)

	keyOut(img)

	var out image.Image = img
	if options.MaxHeight > 0 && img.Bounds().Dy() > options.MaxHeight {
		out = downscale(img, options.MaxHeight)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// RemoveBackgroundDataURL is RemoveBackground over data URLs.
func RemoveBackgroundDataURL(source string, options ChromaOptions) (string, error) {
	data, _, err := DecodeDataURL(source)
	if err != nil {
		return "", err
	}
	keyed, err := RemoveBackground(data, options)
	if err != nil {
		return "", err
	}
	return EncodeDataURL(keyed, "image/png"), nil
}

// IsDataURL reports whether s is an inline data URL rather than a link.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURL returns the payload and content type of a data URL.
func DecodeDataURL(s string) ([]byte, string, error) {
	u, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("invalid data URL: %w", err)
	}
	return u.Data, u.ContentType(), nil
}

// EncodeDataURL wraps data in a base64 data URL.
func EncodeDataURL(data []byte, contentType string) string {
	return dataurl.New(data, contentType).String()
}

func keyOut(img *image.NRGBA) {
	if len(img.Pix) < 4 {
		return
	}
	kr, kg, kb := float64(img.Pix[0]), float64(img.Pix[1]), float64(img.Pix[2])

	threshold := DefaultThreshold
	if isMagenta(img.Pix[0], img.Pix[1], img.Pix[2]) {
		threshold = MagentaThreshold
	}

	for i := 0; i+3 < len(img.Pix); i += 4 {
		dr := float64(img.Pix[i]) - kr
		dg := float64(img.Pix[i+1]) - kg
		db := float64(img.Pix[i+2]) - kb
		if math.Sqrt(dr*dr+dg*dg+db*db) < threshold {
			img.Pix[i+3] = 0
		}
	}
}

func isMagenta(r, g, b uint8) bool {
	return r > 200 && g < 100 && b > 200
}

func downscale(img image.Image, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := int(math.Round(float64(bounds.Dx()) * float64(maxHeight) / float64(bounds.Dy())))
	if width < 1 {
		width = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, maxHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
