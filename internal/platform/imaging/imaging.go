package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
)

const (
	MaxWidth  = 500
	MaxHeight = 500
)

// FitWithin downscales PNG and JPEG images so they fit inside maxW x maxH,
// keeping the aspect ratio. Other formats, and images that already fit, are
// returned untouched with resized=false.
func FitWithin(raw []byte, ext string, maxW, maxH int) (out []byte, resized bool, err error) {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext != "png" && ext != "jpg" && ext != "jpeg" {
		return raw, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, false, fmt.Errorf("decode image config: %w", err)
	}
	w, h := fitDimensions(cfg.Width, cfg.Height, maxW, maxH)
	if w == cfg.Width && h == cfg.Height {
		return raw, false, nil
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch ext {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode %s: %w", ext, err)
	}
	return buf.Bytes(), true, nil
}

func fitDimensions(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || (w <= maxW && h <= maxH) {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
