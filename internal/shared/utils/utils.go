package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// ParseOptionalUUID: "" → nil, sai format → error
func ParseOptionalUUID(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ToMinorUnits đổi số tiền đơn vị chính sang đơn vị nhỏ nhất (x100), chính xác tuyệt đối
// Trả lỗi nếu còn phần lẻ dưới 1 minor unit
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than 2 decimal places", amount.String())
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s out of range", amount.String())
	}
	return minor.IntPart(), nil
}

func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// =====================================================
// ASYNQ TASK HELPERS
// =====================================================

func NewTask(taskType string, payload interface{}, opts ...asynq.Option) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, raw, opts...), nil
}

// UnmarshalTask decode payload; payload hỏng thì SkipRetry vì retry cũng không sửa được
func UnmarshalTask(t *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("%s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
