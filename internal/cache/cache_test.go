package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoop_AlwaysMisses(t *testing.T) {
	var c IdentityCache = Noop{}
	ctx := context.Background()

	_, err := c.Get(ctx, "ana")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.Set(ctx, "ana", "ana@x.com"))

	// Set is a no-op, the next Get still misses.
	_, err = c.Get(ctx, "ana")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.Delete(ctx, "ana"))
}
