package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
)

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New("not-a-redis-url")
	assert.Error(t, err)
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"redis nil reply", goredis.Nil, false},
		{"context canceled", context.Canceled, false},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"econnrefused", syscall.ECONNREFUSED, true},
		{"connection refused message", errors.New("dial tcp: connection refused"), true},
		{"broken pipe message", errors.New("write: broken pipe"), true},
		{"wrapped eof", fmt.Errorf("read reply: %w", errors.New("EOF")), true},
		{"application error", errors.New("WRONGTYPE Operation against a key"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}

func TestTranslateErr(t *testing.T) {
	assert.ErrorIs(t, translateErr(goredis.Nil), kv.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translateErr(other))
}
