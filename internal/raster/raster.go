// Package raster defines the height raster provider boundary. Heights are
// height-above-ground values in the same linear unit as the vehicle
// dimensions; reading actual raster file formats beyond the ASCII grid
// convenience reader is the hosting application's concern.
package raster

import (
	"errors"
	"time"
)

// ErrNoData marks a query with no usable value: outside the raster extent or
// a NoData cell. Recovered per sample, never fatal.
var ErrNoData = errors.New("no data at coordinate")

// ErrTimeout marks a provider call that exceeded the configured per-call
// timeout. Unlike ErrNoData this is an I/O failure and fatal for the run.
var ErrTimeout = errors.New("raster query timed out")

// Provider exposes height lookups at planar coordinates.
// Implementations return ErrNoData for missing cells and any other error for
// I/O failures.
type Provider interface {
	HeightAt(x, y float64) (float64, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(x, y float64) (float64, error)

// HeightAt calls the wrapped function.
func (f ProviderFunc) HeightAt(x, y float64) (float64, error) {
	return f(x, y)
}

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

type lookupResult struct {
	value float64
	err   error
}

// WithTimeout wraps a provider with a per-call timeout. A slow provider
// invalidates the whole run rather than being silently skipped, so the
// timeout surfaces as an error, not as NoData.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: timeout}
}

func (t *timeoutProvider) HeightAt(x, y float64) (float64, error) {
	done := make(chan lookupResult, 1)
	go func() {
		v, err := t.inner.HeightAt(x, y)
		done <- lookupResult{value: v, err: err}
	}()

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.value, res.err
	case <-timer.C:
		return 0, ErrTimeout
	}
}
