package service

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // register the png decoder
	"strings"

	perr "outreach/internal/platform/errors"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

var accepted = map[string]bool{"image/jpeg": true, "image/png": true}

// checkType requires a jpeg or png whose declared type agrees with its bytes
func checkType(declared string, body []byte) error {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	if !accepted[declared] {
		return perr.Validation("photo must be image/jpeg or image/png",
			perr.FieldIssue{Field: "photo", Message: "must be image/jpeg or image/png"})
	}
	if !mimetype.Detect(body).Is(declared) {
		return perr.Validation("photo content does not match its declared type",
			perr.FieldIssue{Field: "photo", Message: "content does not match declared type"})
	}
	return nil
}

// transcode flattens onto white, bounds the longest side and re-encodes as jpeg
func transcode(body []byte, maxDim, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, perr.Validation("photo could not be decoded",
			perr.FieldIssue{Field: "photo", Message: "could not be decoded"})
	}
	sb := src.Bounds()
	w, h := fit(sb.Dx(), sb.Dy(), maxDim)
	if w == 0 || h == 0 {
		return nil, perr.Validation("photo is empty", perr.FieldIssue{Field: "photo", Message: "is empty"})
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// fit scales w x h down so neither side exceeds maxDim. maxDim <= 0 keeps the size
func fit(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}
