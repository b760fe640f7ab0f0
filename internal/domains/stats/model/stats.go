package model

// SellerStats - GET /seller/stats
type SellerStats struct {
	BookCount  int64 `json:"bookCount"`
	OrderCount int64 `json:"orderCount"`
}

// AdminStats - GET /admin/stats; userCount chỉ đếm role User
type AdminStats struct {
	VendorCount int64 `json:"vendorCount"`
	UserCount   int64 `json:"userCount"`
	BookCount   int64 `json:"bookCount"`
	OrderCount  int64 `json:"orderCount"`
}
