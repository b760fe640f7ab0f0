package catalog

import (
	"strconv"
	"strings"
)

const (
	DefaultPage = 1
	// DefaultLimit dùng cho list books / orders / users
	DefaultLimit = 10
	// BuyerOrderHistoryLimit: grid "My orders" phía client hiển thị 3x3
	BuyerOrderHistoryLimit = 9
	MaxLimit               = 100
	// MaxPage giữ (page-1)*limit trong phạm vi int, OFFSET không bao giờ âm
	MaxPage = 1_000_000
)

// Params là page/limit đã chuẩn hoá, page bắt đầu từ 1
type Params struct {
	Page  int
	Limit int
}

// ParseParams không bao giờ trả lỗi: input rỗng, không phải số hoặc < 1
// đều rơi về default.
func ParseParams(rawPage, rawLimit string, defaultLimit int) Params {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}

	p := Params{
		Page:  parsePositive(rawPage, DefaultPage),
		Limit: parsePositive(rawLimit, defaultLimit),
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

func parsePositive(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// =====================================================
// PAGE RESULT
// =====================================================

type Page[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

func NewPage[T any](items []T, totalCount int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		TotalCount:  totalCount,
		TotalPages:  TotalPages(totalCount, p.Limit),
		CurrentPage: p.Page,
		Limit:       p.Limit,
	}
}

// TotalPages = ceil(total / limit)
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}
