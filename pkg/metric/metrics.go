package metric

import "time"

type (
	Labels map[string]string

	Metrics interface {
		With(labels Labels) Metrics
		Increment(key string)
		Count(key string, n int)
		Duration(key string, d time.Duration)
	}
)
