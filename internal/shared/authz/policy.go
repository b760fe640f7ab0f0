package authz

import "github.com/google/uuid"

// Role của user, giá trị lưu trong DB và trả về client (case-sensitive)
type Role string

const (
	RoleUser   Role = "User"
	RoleVendor Role = "Vendor"
	RoleAdmin  Role = "Admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

type Resource string

const (
	ResourceBook        Resource = "book"
	ResourceOrder       Resource = "order"
	ResourceAllOrders   Resource = "order:all"
	ResourceUser        Resource = "user"
	ResourceUserRole    Resource = "user:role"
	ResourceWishlist    Resource = "wishlist"
	ResourcePayment     Resource = "payment"
	ResourceSellerStats Resource = "stats:seller"
	ResourceAdminStats  Resource = "stats:admin"
)

// =====================================================
// POLICY TABLE
// =====================================================
// Role → Resource → các action được phép.
// Ownership (book.seller_id == requester) kiểm tra riêng ở service.
var policy = map[Role]map[Resource][]Action{
	RoleUser: {
		ResourceBook:     {ActionRead, ActionList},
		ResourceOrder:    {ActionCreate, ActionRead, ActionList, ActionUpdate},
		ResourceUser:     {ActionRead, ActionUpdate},
		ResourceWishlist: {ActionRead, ActionUpdate},
		ResourcePayment:  {ActionCreate, ActionUpdate},
	},
	RoleVendor: {
		ResourceBook:        {ActionCreate, ActionRead, ActionList, ActionUpdate, ActionDelete, ActionExport},
		ResourceOrder:       {ActionCreate, ActionRead, ActionList, ActionUpdate, ActionExport},
		ResourceUser:        {ActionRead, ActionUpdate},
		ResourceWishlist:    {ActionRead, ActionUpdate},
		ResourcePayment:     {ActionCreate, ActionUpdate},
		ResourceSellerStats: {ActionRead},
	},
	RoleAdmin: {
		ResourceBook:        {ActionCreate, ActionRead, ActionList, ActionUpdate, ActionDelete, ActionExport},
		ResourceOrder:       {ActionCreate, ActionRead, ActionList, ActionUpdate, ActionDelete, ActionExport},
		ResourceAllOrders:   {ActionList},
		ResourceUser:        {ActionRead, ActionList, ActionUpdate, ActionDelete},
		ResourceUserRole:    {ActionUpdate},
		ResourceWishlist:    {ActionRead, ActionUpdate},
		ResourcePayment:     {ActionCreate, ActionUpdate},
		ResourceSellerStats: {ActionRead},
		ResourceAdminStats:  {ActionRead},
	},
}

// CanPerform là điểm kiểm tra quyền duy nhất cho mọi role check
func CanPerform(role Role, action Action, resource Resource) bool {
	resources, ok := policy[role]
	if !ok {
		return false
	}
	for _, a := range resources[resource] {
		if a == action {
			return true
		}
	}
	return false
}

// =====================================================
// IDENTITY
// =====================================================

// Identity là principal đã xác thực, do auth middleware gắn vào request
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Owns true nếu resource thuộc về requester
func (i Identity) Owns(ownerID uuid.UUID) bool {
	return ownerID != uuid.Nil && i.UserID == ownerID
}

func (i Identity) Can(action Action, resource Resource) bool {
	return CanPerform(i.Role, action, resource)
}
