package eatery

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const jpegQuality = 82

// assetStats summarizes one asset copy pass.
type assetStats struct {
	Copied  int
	Resized int
	Written []string
}

// copyAssets mirrors srcDir into dstDir, shrinking raster images wider than
// maxWidth. A missing srcDir is not an error.
func copyAssets(ctx context.Context, srcDir, dstDir string, maxWidth int) (assetStats, error) {
	var stats assetStats
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return stats, nil
	}
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out, resized, err := shrinkImage(data, filepath.Ext(path), maxWidth)
		if err != nil {
			return fmt.Errorf("eatery: asset %s: %w", rel, err)
		}
		dst := filepath.Join(dstDir, rel)
		if err := writeFileAtomic(dst, out); err != nil {
			return err
		}
		stats.Copied++
		if resized {
			stats.Resized++
		}
		stats.Written = append(stats.Written, dst)
		return nil
	})
	return stats, err
}

// shrinkImage returns data unchanged unless it is a JPEG, PNG or single-frame
// GIF wider than maxWidth, in which case it is scaled down and re-encoded in
// its original format.
func shrinkImage(data []byte, ext string, maxWidth int) ([]byte, bool, error) {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return data, false, nil
	}
	if maxWidth <= 0 {
		return data, false, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= maxWidth {
		return data, false, nil
	}
	if ext == ".gif" {
		all, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, false, fmt.Errorf("decode gif: %w", err)
		}
		if len(all.Image) > 1 {
			return data, false, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	newH := bounds.Dy() * maxWidth / bounds.Dx()
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch ext {
	case ".png":
		err = png.Encode(&buf, dst)
	case ".gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}
