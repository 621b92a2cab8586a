package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"golang.org/x/image/draw"
)

// Variant widths for resized copies. Originals are kept untouched;
// the public site serves the variants.
const (
	MediumWidth = 800
	SmallWidth  = 320

	jpegQuality = 82
)

// VariantKey derives the bucket key for a resized copy, e.g.
// dogs/x/photo.jpg with suffix "_md" becomes dogs/x/photo_md.jpg.
func VariantKey(key, suffix string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + suffix + ext
}

// VariantKeys returns the keys of all resized copies of an original.
func VariantKeys(key string) []string {
	return []string{VariantKey(key, "_md"), VariantKey(key, "_sm")}
}

// Variant is one encoded resized copy ready for upload.
type Variant struct {
	Suffix string
	Data   []byte
}

// BuildVariants decodes an uploaded image and encodes medium and small
// JPEG copies. Images narrower than a variant width are not upscaled;
// that variant is encoded at the original size.
func BuildVariants(original []byte) ([]Variant, error) {
	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	variants := make([]Variant, 0, 2)
	for _, v := range []struct {
		suffix string
		width  int
	}{
		{"_md", MediumWidth},
		{"_sm", SmallWidth},
	} {
		data, err := encodeResized(src, v.width)
		if err != nil {
			return nil, fmt.Errorf("encode %s variant: %w", v.suffix, err)
		}
		variants = append(variants, Variant{Suffix: v.suffix, Data: data})
	}
	return variants, nil
}

func encodeResized(src image.Image, maxWidth int) ([]byte, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	dst := src
	if w > maxWidth {
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, h*maxWidth/w))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		dst = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
