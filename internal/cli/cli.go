// Package cli parses the command line. The contract is positional
// NVR_ADDR START_DATE START_TIME END_DATE END_TIME plus a handful of flags,
// with short and long spellings for each.
package cli

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultConcurrent = 3
	DefaultMaxChannel = 32
)

const usageText = `Usage:
  %[1]s [-u] [-p] [-c MAX_CONCURRENT] [-m MAX_CHANNEL] [--channels CHANNELS] NVR_ADDR START_DATE START_TIME END_DATE END_TIME

Download recorded media from all channels of an NVR/DVR.

Positional arguments:
  NVR_ADDR     device address
  START_DATE   start date of interval (YYYY-MM-DD)
  START_TIME   start time of interval (HH:MM:SS)
  END_DATE     end date of interval (YYYY-MM-DD)
  END_TIME     end time of interval (HH:MM:SS)

Flags:
  -u, --utc            treat the interval as UTC time
  -p, --photo          download photos instead of videos
  -c, --concurrent N   maximum concurrent channel downloads (default %[2]d)
  -m, --max-channel N  maximum channel number to scan (default %[3]d)
  --channels SPEC      specific channels, e.g. "1,2,3" or "1-8" or "1,3-5,7";
                       omit to auto-detect all channels with recordings

Examples:
  %[1]s 10.19.2.2 2024-11-25 08:00:00 2024-11-25 18:00:00
  %[1]s --channels 1-8 10.19.2.2 2024-11-25 08:00:00 2024-11-25 18:00:00
  %[1]s -m 64 -c 5 10.19.2.2 2024-11-25 08:00:00 2024-11-25 18:00:00

Credentials are read from the HIK_USERNAME and HIK_PASSWORD environment
variables.
`

// Usage writes the help text.
func Usage(program string, w io.Writer) {
	fmt.Fprintf(w, usageText, program, DefaultConcurrent, DefaultMaxChannel)
}

// Args is the parsed command line.
type Args struct {
	NVRAddr    string
	StartDate  string
	StartTime  string
	EndDate    string
	EndTime    string
	UseUTC     bool
	Photo      bool
	Concurrent int
	MaxChannel int
	Channels   []int // nil means auto-detect
}

// Parse reads argv (without the program name). On any problem it returns an
// error whose text is user-facing.
func Parse(program string, argv []string, errOut io.Writer) (*Args, error) {
	args := &Args{}

	fs := flag.NewFlagSet(program, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { fmt.Fprintf(errOut, usageText, program, DefaultConcurrent, DefaultMaxChannel) }

	fs.BoolVar(&args.UseUTC, "u", false, "treat interval as UTC time")
	fs.BoolVar(&args.UseUTC, "utc", false, "treat interval as UTC time")
	fs.BoolVar(&args.Photo, "p", false, "download photos instead of videos")
	fs.BoolVar(&args.Photo, "photo", false, "download photos instead of videos")
	fs.IntVar(&args.Concurrent, "c", DefaultConcurrent, "maximum concurrent channel downloads")
	fs.IntVar(&args.Concurrent, "concurrent", DefaultConcurrent, "maximum concurrent channel downloads")
	fs.IntVar(&args.MaxChannel, "m", DefaultMaxChannel, "maximum channel number to scan")
	fs.IntVar(&args.MaxChannel, "max-channel", DefaultMaxChannel, "maximum channel number to scan")
	channelSpec := fs.String("channels", "", "specific channels to download")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	positional := fs.Args()
	if len(positional) != 5 {
		fs.Usage()
		return nil, fmt.Errorf("expected 5 positional arguments, got %d", len(positional))
	}

	args.NVRAddr = positional[0]
	args.StartDate = positional[1]
	args.StartTime = positional[2]
	args.EndDate = positional[3]
	args.EndTime = positional[4]

	if args.Concurrent <= 0 {
		return nil, fmt.Errorf("concurrent downloads must be positive, got %d", args.Concurrent)
	}
	if args.MaxChannel <= 0 {
		return nil, fmt.Errorf("max channel must be positive, got %d", args.MaxChannel)
	}

	if *channelSpec != "" {
		channels, err := ParseChannels(*channelSpec)
		if err != nil {
			return nil, err
		}
		args.Channels = channels
	}

	return args, nil
}

// ParseChannels expands a channel spec like "1,2,3", "1-8" or "1,3-5,7"
// into a sorted, de-duplicated list. Channel numbers are only checked for
// numeric shape, not device capability.
func ParseChannels(spec string) ([]int, error) {
	seen := map[int]bool{}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := parseChannel(lo)
			if err != nil {
				return nil, err
			}
			end, err := parseChannel(hi)
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("invalid channel range %q", part)
			}
			for ch := start; ch <= end; ch++ {
				seen[ch] = true
			}
			continue
		}

		ch, err := parseChannel(part)
		if err != nil {
			return nil, err
		}
		seen[ch] = true
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("empty channel spec %q", spec)
	}

	channels := make([]int, 0, len(seen))
	for ch := range seen {
		channels = append(channels, ch)
	}
	sort.Ints(channels)
	return channels, nil
}

func parseChannel(text string) (int, error) {
	ch, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || ch < 1 {
		return 0, fmt.Errorf("invalid channel number %q", strings.TrimSpace(text))
	}
	return ch, nil
}
