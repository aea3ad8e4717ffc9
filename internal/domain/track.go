package domain

// Track is one recorded media segment on the device: its time interval and
// the locator needed to retrieve it. Tracks are read-only once built.
type Track struct {
	Window      TimeWindow
	PlaybackURI string
}
