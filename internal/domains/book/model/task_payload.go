package model

import "fmt"

// ProcessCoverPayload - worker resize ảnh gốc thành các variant
type ProcessCoverPayload struct {
	BookID      string `json:"bookId"`
	OriginalKey string `json:"originalKey"`
}

// DeleteCoverPayload - worker xoá toàn bộ object của book sau khi book bị xoá
type DeleteCoverPayload struct {
	BookID string `json:"bookId"`
}

func CoverPrefix(bookID string) string {
	return fmt.Sprintf("books/%s/", bookID)
}

func CoverOriginalKey(bookID, ext string) string {
	return fmt.Sprintf("books/%s/cover_original.%s", bookID, ext)
}

func CoverVariantKey(bookID, variant string) string {
	return fmt.Sprintf("books/%s/cover_%s.jpg", bookID, variant)
}
