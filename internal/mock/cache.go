package mock

import (
	"context"
)

// Cache implements port.Cache for tests.
type Cache struct {
	// stored values
	Data map[string][]byte

	// errors
	GetErr error
	DelErr error

	// call flags
	GetCalled bool
	SetCalled bool
	DelCalled bool
}

func (c *Cache) GetLabels(ctx context.Context, key string) ([]byte, error) {
	c.GetCalled = true
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	return c.Data[key], nil
}

func (c *Cache) SetLabels(ctx context.Context, key string, data []byte) {
	c.SetCalled = true
	if c.Data == nil {
		c.Data = map[string][]byte{}
	}
	c.Data[key] = data
}

func (c *Cache) DeleteLabels(ctx context.Context, key string) error {
	c.DelCalled = true
	delete(c.Data, key)
	return c.DelErr
}
