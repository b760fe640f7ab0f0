package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen  = regexp.MustCompile(`-+`)
)

// GenerateSlug: "Nguyễn Nhật Ánh's Books" → "nguyen-nhat-anhs-books"
func GenerateSlug(input string) string {
	s := strings.ToLower(RemoveDiacritics(input))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = multiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExportFileName tên file .xlsx cho export, vd: "books-jane-doe-20261018.xlsx"
func ExportFileName(kind, owner string, at time.Time) string {
	parts := []string{kind}
	if slug := GenerateSlug(owner); slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, at.Format("20060102"))
	return strings.Join(parts, "-") + ".xlsx"
}

var diacritics = strings.NewReplacer(
	"á", "a", "à", "a", "ả", "a", "ã", "a", "ạ", "a",
	"ă", "a", "ắ", "a", "ằ", "a", "ẳ", "a", "ẵ", "a", "ặ", "a",
	"â", "a", "ấ", "a", "ầ", "a", "ẩ", "a", "ẫ", "a", "ậ", "a",
	"é", "e", "è", "e", "ẻ", "e", "ẽ", "e", "ẹ", "e",
	"ê", "e", "ế", "e", "ề", "e", "ể", "e", "ễ", "e", "ệ", "e",
	"í", "i", "ì", "i", "ỉ", "i", "ĩ", "i", "ị", "i",
	"ó", "o", "ò", "o", "ỏ", "o", "õ", "o", "ọ", "o",
	"ô", "o", "ố", "o", "ồ", "o", "ổ", "o", "ỗ", "o", "ộ", "o",
	"ơ", "o", "ớ", "o", "ờ", "o", "ở", "o", "ỡ", "o", "ợ", "o",
	"ú", "u", "ù", "u", "ủ", "u", "ũ", "u", "ụ", "u",
	"ư", "u", "ứ", "u", "ừ", "u", "ử", "u", "ữ", "u", "ự", "u",
	"ý", "y", "ỳ", "y", "ỷ", "y", "ỹ", "y", "ỵ", "y",
	"đ", "d", "Đ", "D",
)

// RemoveDiacritics chỉ xử lý chữ thường + Đ, caller lowercase trước nếu cần
func RemoveDiacritics(input string) string {
	return diacritics.Replace(strings.ToLower(input))
}
