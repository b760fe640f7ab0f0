package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/png"

	"github.com/disintegration/imaging"
)

// CoverVariant là một kích thước ảnh bìa được sinh ra từ ảnh gốc
type CoverVariant struct {
	Name string
	Size int
}

var CoverVariants = []CoverVariant{
	{Name: "large", Size: 1200},
	{Name: "medium", Size: 600},
	{Name: "thumbnail", Size: 300},
}

type ImageProcessor struct {
	MaxSize int64 // bytes
	Quality int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 5 * 1024 * 1024, Quality: 90}
}

// ValidateImage chỉ nhận JPEG/PNG <= MaxSize, trả về extension ("jpg" | "png")
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if int64(len(data)) > p.MaxSize {
		return "", fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg":
		return "jpg", nil
	case "png":
		return "png", nil
	default:
		return "", fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// ProcessImage resize theo CoverVariants, encode JPEG
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	variants := make(map[string][]byte, len(CoverVariants))
	for _, v := range CoverVariants {
		resized := imaging.Fit(img, v.Size, v.Size, imaging.Lanczos)
		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: p.Quality}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", v.Name, err)
		}
		variants[v.Name] = b.Bytes()
	}
	return variants, nil
}

// ContentType theo extension đã validate
func ContentType(ext string) string {
	if ext == "png" {
		return "image/png"
	}
	return "image/jpeg"
}
