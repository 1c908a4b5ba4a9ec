package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url://x")
	assert.Error(t, err)
}
