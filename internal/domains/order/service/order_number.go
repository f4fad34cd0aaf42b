package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const orderNumberDayLayout = "20060102"

type dailySequencer interface {
	NextDailySequenceWithTx(ctx context.Context, tx pgx.Tx, day string) (int, error)
}

// OrderNumberGenerator sinh "ORD-{YYYYMMDD}-{seq:04d}" với seq lấy từ counter trong DB.
// "Ngày" tính theo timezone của cửa hàng, không theo UTC.
type OrderNumberGenerator struct {
	seq dailySequencer
	loc *time.Location
	now func() time.Time
}

func NewOrderNumberGenerator(seq dailySequencer, utcOffsetHours int) *OrderNumberGenerator {
	return &OrderNumberGenerator{
		seq: seq,
		loc: time.FixedZone(fmt.Sprintf("UTC%+d", utcOffsetHours), utcOffsetHours*3600),
		now: time.Now,
	}
}

// WithClock thay clock (test)
func (g *OrderNumberGenerator) WithClock(now func() time.Time) *OrderNumberGenerator {
	g.now = now
	return g
}

// Generate phải được gọi trong cùng transaction với INSERT order
func (g *OrderNumberGenerator) Generate(ctx context.Context, tx pgx.Tx) (string, error) {
	day := g.now().In(g.loc).Format(orderNumberDayLayout)

	seq, err := g.seq.NextDailySequenceWithTx(ctx, tx, day)
	if err != nil {
		return "", err
	}

	return FormatOrderNumber(day, seq), nil
}

func FormatOrderNumber(day string, seq int) string {
	return fmt.Sprintf("ORD-%s-%04d", day, seq)
}
