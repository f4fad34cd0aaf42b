package momo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidGatewayOrderID = errors.New("invalid momo order id")

type AttemptKind int

const (
	AttemptInitial AttemptKind = iota + 1
	AttemptRetry
)

func (k AttemptKind) String() string {
	switch k {
	case AttemptInitial:
		return "initial"
	case AttemptRetry:
		return "retry"
	}
	return "unknown"
}

// GatewayOrderID là orderId gửi cho Momo:
//
//	{orderNumber}_{unixTs}   lần đầu
//	{orderNumber}_R{unixTs}  retry payment
//
// Momo yêu cầu orderId duy nhất cho mỗi lần tạo payment nên mỗi attempt có timestamp riêng.
type GatewayOrderID struct {
	Kind        AttemptKind
	OrderNumber string
	Timestamp   int64
}

func NewInitialID(orderNumber string, now time.Time) GatewayOrderID {
	return GatewayOrderID{Kind: AttemptInitial, OrderNumber: orderNumber, Timestamp: now.Unix()}
}

func NewRetryID(orderNumber string, now time.Time) GatewayOrderID {
	return GatewayOrderID{Kind: AttemptRetry, OrderNumber: orderNumber, Timestamp: now.Unix()}
}

func (id GatewayOrderID) String() string {
	if id.Kind == AttemptRetry {
		return fmt.Sprintf("%s_R%d", id.OrderNumber, id.Timestamp)
	}
	return fmt.Sprintf("%s_%d", id.OrderNumber, id.Timestamp)
}

// ParseGatewayOrderID tách theo dấu "_" cuối cùng, nên order number chứa "_" vẫn decode đúng
func ParseGatewayOrderID(s string) (GatewayOrderID, error) {
	idx := strings.LastIndex(s, "_")
	if idx <= 0 || idx == len(s)-1 {
		return GatewayOrderID{}, fmt.Errorf("%w: %q", ErrInvalidGatewayOrderID, s)
	}

	id := GatewayOrderID{OrderNumber: s[:idx], Kind: AttemptInitial}
	suffix := s[idx+1:]
	if strings.HasPrefix(suffix, "R") {
		id.Kind = AttemptRetry
		suffix = suffix[1:]
	}

	ts, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || ts <= 0 {
		return GatewayOrderID{}, fmt.Errorf("%w: %q", ErrInvalidGatewayOrderID, s)
	}
	id.Timestamp = ts
	return id, nil
}
