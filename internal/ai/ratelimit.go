package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type rateLimited struct {
	Provider
	limiter *rate.Limiter
}

// RateLimited paces p to at most perMinute completions per minute
func RateLimited(p Provider, perMinute int) Provider {
	if perMinute <= 0 {
		return p
	}
	return &rateLimited{
		Provider: p,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

func (r *rateLimited) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.Provider.Complete(ctx, messages)
}
