package model

// Payload của các event order.* trên Kafka

type OrderCreatedPayload struct {
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	SellerID   string `json:"seller_id"`
	BookID     string `json:"book_id"`
	TotalPrice string `json:"total_price"`
}

type OrderStatusChangedPayload struct {
	OrderID   string `json:"order_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy string `json:"changed_by"`
}
