package platform

import "time"

// AppName is reported to the notification daemon.
const AppName = "polyshot"

// DefaultExpire is used when Options.Expire is zero.
const DefaultExpire = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification
	// center should display, typically the exported annotation.
	IconPath string
	// Expire is how long the notification stays visible.
	Expire time.Duration
}

func (o Options) expireMillis() int32 {
	if o.Expire <= 0 {
		return int32(DefaultExpire / time.Millisecond)
	}
	return int32(o.Expire / time.Millisecond)
}
