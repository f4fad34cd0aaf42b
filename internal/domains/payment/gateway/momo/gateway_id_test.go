package momo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayOrderID_RoundTrip(t *testing.T) {
	now := time.Unix(1762600000, 0)

	tests := []struct {
		name string
		id   GatewayOrderID
		want string
	}{
		{"initial", NewInitialID("ORD-20251108-0001", now), "ORD-20251108-0001_1762600000"},
		{"retry", NewRetryID("ORD-20251108-0001", now), "ORD-20251108-0001_R1762600000"},
		{"order number with underscore", NewRetryID("ORD_SPECIAL_7", now), "ORD_SPECIAL_7_R1762600000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.String())

			parsed, err := ParseGatewayOrderID(tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.id, parsed)
		})
	}
}

func TestParseGatewayOrderID_Invalid(t *testing.T) {
	for _, s := range []string{"", "ORD-20251108-0001", "_123", "ORD-1_", "ORD-1_abc", "ORD-1_R", "ORD-1_R-5"} {
		_, err := ParseGatewayOrderID(s)
		assert.ErrorIs(t, err, ErrInvalidGatewayOrderID, s)
	}
}
