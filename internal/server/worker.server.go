package serverApp

import (
	"fmt"
	"go-twocheckout/internal/pkg/logger"
	"time"

	"github.com/panjf2000/ants/v2"
)

// InitWorker creates the pool that runs event publishing and callback
// archiving off the request path. The caller releases it on shutdown.
func InitWorker(size int) (*ants.Pool, error) {
	if size <= 0 {
		size = 100
	}

	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(size, ants.WithOptions(poolOpts))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return pool, nil
}
