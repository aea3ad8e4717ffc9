package domain

// ContentType selects which recording stream to fetch from the device.
type ContentType int

const (
	Video ContentType = iota
	Photo
)

func (c ContentType) String() string {
	if c == Photo {
		return "photo"
	}
	return "video"
}

// Ext is the output file extension for this content type.
func (c ContentType) Ext() string {
	if c == Photo {
		return "jpg"
	}
	return "mp4"
}

// TrackID derives the device track identifier for a channel: channel 1
// video is track 101, channel 2 photo is track 203, and so on.
func (c ContentType) TrackID(channel int) int {
	base := 1
	if c == Photo {
		base = 3
	}
	return channel*100 + base
}
