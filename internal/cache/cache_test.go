package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisabledClientIsNoop(t *testing.T) {
	ctx := context.Background()
	c := New("", "", 0)

	assert.False(t, c.Enabled())
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	v, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, v)

	assert.NoError(t, c.Close())
}

func TestNilClientIsNoop(t *testing.T) {
	var c *Client
	v, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.Nil(t, v)
}
