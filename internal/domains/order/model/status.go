package model

// OrderStatus là FK tới bảng order_statuses (vocabulary cố định 1..7)
type OrderStatus int

const (
	StatusPending    OrderStatus = 1
	StatusConfirmed  OrderStatus = 2
	StatusProcessing OrderStatus = 3
	StatusShipped    OrderStatus = 4
	StatusDelivered  OrderStatus = 5
	StatusCancelled  OrderStatus = 6
	StatusReturned   OrderStatus = 7
)

var statusNames = map[OrderStatus]string{
	StatusPending:    "pending",
	StatusConfirmed:  "confirmed",
	StatusProcessing: "processing",
	StatusShipped:    "shipped",
	StatusDelivered:  "delivered",
	StatusCancelled:  "cancelled",
	StatusReturned:   "returned",
}

func (s OrderStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s OrderStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal: không còn transition nào sau Cancelled / Returned
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReturned
}

// CustomerCancellable: khách chỉ được tự huỷ khi đơn chưa vào xử lý
func (s OrderStatus) CustomerCancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ValidateTransition kiểm tra transition from -> to.
//
// Rules:
//   - Cancelled và Returned là terminal
//   - Delivered chỉ được chuyển sang Returned
//   - Returned chỉ đến được từ Delivered
//   - giữ nguyên status (from == to) hợp lệ khi chưa terminal: admin cập nhật
//     tracking number, note, payment status mà không đổi status
//   - ngoài ra to phải lớn hơn from, trừ khi to == Cancelled
func ValidateTransition(from, to OrderStatus) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}

	switch {
	case from.IsTerminal():
		return ErrStatusTerminal
	case from == to:
		return nil
	case from == StatusDelivered:
		if to != StatusReturned {
			return ErrInvalidTransition
		}
		return nil
	case to == StatusReturned:
		return ErrInvalidTransition
	case to == StatusCancelled:
		return nil
	case to < from:
		return ErrInvalidTransition
	}

	return nil
}
