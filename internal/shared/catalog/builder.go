package catalog

import (
	"fmt"
	"strings"
)

// Builder gom các điều kiện WHERE với placeholder $n của pgx.
// Giá trị rỗng bị bỏ qua, nên filter optional chỉ cần gọi thẳng.
type Builder struct {
	conditions []string
	args       []any
}

func NewBuilder() *Builder {
	return &Builder{}
}

// ContainsFold: substring match không phân biệt hoa thường (ILIKE '%v%').
// Ký tự đặc biệt của LIKE được escape để input của user là literal.
func (b *Builder) ContainsFold(column, value string) *Builder {
	value = strings.TrimSpace(value)
	if value == "" {
		return b
	}
	b.args = append(b.args, "%"+escapeLike(value)+"%")
	b.conditions = append(b.conditions, fmt.Sprintf("%s ILIKE $%d", column, len(b.args)))
	return b
}

// Equal thêm điều kiện bằng. value nil bị bỏ qua.
func (b *Builder) Equal(column string, value any) *Builder {
	if value == nil {
		return b
	}
	b.args = append(b.args, value)
	b.conditions = append(b.conditions, fmt.Sprintf("%s = $%d", column, len(b.args)))
	return b
}

// Where trả về " WHERE a AND b" hoặc "" nếu không có điều kiện
func (b *Builder) Where() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

// Args trả về copy để caller append LIMIT/OFFSET không ảnh hưởng COUNT query
func (b *Builder) Args() []any {
	out := make([]any, len(b.args))
	copy(out, b.args)
	return out
}

// Paginate trả về " LIMIT $n OFFSET $m" cùng args đầy đủ
func (b *Builder) Paginate(p Params) (string, []any) {
	args := b.Args()
	args = append(args, p.Limit, p.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
