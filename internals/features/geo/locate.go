package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrLocationUnavailable: lokasi perangkat tidak pernah didapat (izin ditolak, timeout, dsb).
var ErrLocationUnavailable = errors.New("location unavailable: allow location access and try again")

// Locator adalah sumber lokasi sekali-ambil.
type Locator interface {
	Locate(ctx context.Context) (Coordinate, error)
}

// LocatorFunc mengadaptasi fungsi biasa menjadi Locator.
type LocatorFunc func(ctx context.Context) (Coordinate, error)

func (f LocatorFunc) Locate(ctx context.Context) (Coordinate, error) { return f(ctx) }

// StaticLocator membungkus koordinat yang dikirim klien lewat payload.
// Nilai nil berarti klien belum mendapatkan lokasi.
type StaticLocator struct {
	Latitude  *float64
	Longitude *float64
}

func (s StaticLocator) Locate(context.Context) (Coordinate, error) {
	if s.Latitude == nil || s.Longitude == nil {
		return Coordinate{}, ErrLocationUnavailable
	}
	return Coordinate{Latitude: *s.Latitude, Longitude: *s.Longitude}, nil
}

type locateResult struct {
	coord Coordinate
	err   error
}

// Acquire menjalankan locator satu kali dengan batas waktu.
// Semua kegagalan (error locator, koordinat invalid, timeout, ctx batal) menjadi ErrLocationUnavailable.
func Acquire(ctx context.Context, l Locator, timeout time.Duration) (Coordinate, error) {
	if l == nil {
		return Coordinate{}, ErrLocationUnavailable
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ch := make(chan locateResult, 1)
	go func() {
		c, err := l.Locate(ctx)
		ch <- locateResult{coord: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return Coordinate{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			if errors.Is(r.err, ErrLocationUnavailable) {
				return Coordinate{}, r.err
			}
			return Coordinate{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, r.err)
		}
		if err := r.coord.Validate(); err != nil {
			return Coordinate{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
		}
		return r.coord, nil
	}
}
