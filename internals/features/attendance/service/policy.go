package service

import (
	"time"

	"canvassers_backend/internals/configs"
)

const (
	DefaultPollInterval    = 60 * time.Second
	DefaultLocationTimeout = 10 * time.Second
	DefaultIdleTimeout     = 30 * time.Minute
)

type Policy struct {
	// true: check-in di luar radius ditolak ErrOutsideGeofence. false: hanya dicatat.
	EnforceGeofence bool
	// true: daftar penjualan harian dikosongkan saat check-out.
	ClearSalesOnCheckout bool

	PollInterval    time.Duration
	LocationTimeout time.Duration
	// sesi CHECKED_OUT tanpa perintah selama IdleTimeout dilepas dari Manager
	IdleTimeout time.Duration
	Location        *time.Location
	Now             func() time.Time
}

func PolicyFromSettings(s configs.AppSettings) Policy {
	return Policy{
		EnforceGeofence:      s.GeofenceEnforce,
		ClearSalesOnCheckout: s.CheckoutClearsSales,
		PollInterval:         s.SalesPollInterval,
		LocationTimeout:      s.LocationTimeout,
		IdleTimeout:          s.SessionIdleTimeout,
		Location:             s.Timezone,
	}
}

func (p Policy) withDefaults() Policy {
	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}
	if p.LocationTimeout <= 0 {
		p.LocationTimeout = DefaultLocationTimeout
	}
	if p.IdleTimeout <= 0 {
		p.IdleTimeout = DefaultIdleTimeout
	}
	if p.Location == nil {
		p.Location = time.UTC
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return p
}
