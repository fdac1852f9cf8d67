package simpleboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	assert.Equal(t, "2026-03-14", DateOnly(ts))
	assert.Equal(t, "", DateOnly(time.Time{}))
}
