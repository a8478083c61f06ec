package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtendExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 20)

	tests := []struct {
		name    string
		current *time.Time
		months  int
		want    time.Time
	}{
		{"first subscription", nil, 1, now.AddDate(0, 0, 30)},
		{"expired restarts from now", &past, 1, now.AddDate(0, 0, 30)},
		{"active stacks on current expiry", &future, 1, future.AddDate(0, 0, 30)},
		{"yearly", nil, 12, now.AddDate(0, 0, 360)},
		{"zero months defaults to one", nil, 0, now.AddDate(0, 0, 30)},
		{"negative months defaults to one", nil, -3, now.AddDate(0, 0, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extendExpiry(now, tt.current, tt.months))
		})
	}
}
