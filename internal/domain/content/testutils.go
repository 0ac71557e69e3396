package content

import (
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// NewBackendForTest creates a miniredis-backed Backend for testing
func NewBackendForTest() (*Backend, error) {
	m, err := miniredis.Run()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return &Backend{Client: client, mini: m}, nil
}
