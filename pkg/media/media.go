package media

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind of a media track.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Constraints requested from the device.
type Constraints struct {
	Video     bool `json:"video"`
	Audio     bool `json:"audio"`
	Width     int  `json:"width,omitempty"`
	Height    int  `json:"height,omitempty"`
	FrameRate int  `json:"frameRate,omitempty"`
}

// Stream mirrors the state of the candidate's camera/microphone stream.
type Stream struct {
	Video        bool        `json:"video"`
	Audio        bool        `json:"audio"`
	VideoEnabled bool        `json:"videoEnabled"`
	AudioEnabled bool        `json:"audioEnabled"`
	Active       bool        `json:"active"`
	Constraints  Constraints `json:"constraints"`
	AcquiredAt   time.Time   `json:"acquiredAt"`
}

// Service is the media acquisition contract consumed by the interview flow.
type Service interface {
	Acquire(ctx context.Context, c Constraints) (Stream, error)
	CurrentStream() *Stream
	IsReady() bool
	Release()
	ToggleTrack(ctx context.Context, kind Kind) error
}

// Device performs the actual platform acquisition.
type Device interface {
	GetUserMedia(ctx context.Context, c Constraints) (Stream, error)
}

// Error names reported by getUserMedia.
const (
	ErrNameNotAllowed     = "NotAllowedError"
	ErrNameNotFound       = "NotFoundError"
	ErrNameNotReadable    = "NotReadableError"
	ErrNameOverconstraint = "OverconstrainedError"
	ErrNameSecurity       = "SecurityError"
	ErrNameTimeout        = "TimeoutError"
)

var ErrNoStream = errors.New("no active media stream")

// DeviceError is a failed acquisition.
type DeviceError struct {
	Name   string
	Detail string
}

func (e *DeviceError) Error() string {
	return e.Message()
}

// Message is the user-facing explanation with a retry hint.
func (e *DeviceError) Message() string {
	switch e.Name {
	case ErrNameNotAllowed:
		return "Camera and microphone access denied. Please allow permissions and try again."
	case ErrNameNotFound:
		return "No camera or microphone found. Please connect a device and try again."
	case ErrNameNotReadable:
		return "Camera or microphone is already in use by another application."
	case ErrNameOverconstraint:
		return "Camera or microphone constraints cannot be satisfied."
	case ErrNameSecurity:
		return "Media access blocked for security reasons. Ensure you're using HTTPS."
	case ErrNameTimeout:
		return "Media request timed out. Please check your devices and try again."
	default:
		if e.Detail != "" {
			return fmt.Sprintf("Media access failed: %s", e.Detail)
		}
		return "Failed to access camera and microphone"
	}
}

// FullAV is the first rung of the fallback ladder.
var FullAV = Constraints{Video: true, Audio: true}

// Fallbacks returns the rungs tried after c failed: audio-only, then a
// lower quality video.
func Fallbacks(c Constraints) []Constraints {
	var out []Constraints
	if c.Video && c.Audio {
		out = append(out, Constraints{Audio: true})
	}
	if c.Video {
		out = append(out, Constraints{Video: true, Audio: true, Width: 640, Height: 480, FrameRate: 15})
	}
	return out
}
