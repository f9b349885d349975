package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusColor(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"yellow", string(Current.Primary)},
		{"orange", string(Current.Secondary)},
		{"green", string(Current.Success)},
		{"red", string(Current.Error)},
		{"gray", string(Current.ForegroundDim)},
		{"", string(Current.ForegroundDim)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(StatusColor(tt.key)), tt.key)
	}
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, MaxWidth, ContentWidth(200))
	assert.Equal(t, 60, ContentWidth(60))
}
