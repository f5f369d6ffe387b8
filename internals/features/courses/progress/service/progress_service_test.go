package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		done, total int64
		want        string
	}{
		{0, 0, "0.00"},
		{0, 4, "0.00"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{4, 4, "100.00"},
		{5, 4, "100.00"}, // chapter di-unpublish setelah diselesaikan
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percent(tc.done, tc.total).StringFixed(2), "%d/%d", tc.done, tc.total)
	}
}
