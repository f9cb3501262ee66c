package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDevice fails the constraints listed in fail and records requests.
type scriptedDevice struct {
	fail     map[Constraints]error
	requests []Constraints
	block    bool
}

func (d *scriptedDevice) GetUserMedia(ctx context.Context, c Constraints) (Stream, error) {
	d.requests = append(d.requests, c)
	if d.block {
		<-ctx.Done()
		return Stream{}, ctx.Err()
	}
	if err, ok := d.fail[c]; ok {
		return Stream{}, err
	}
	return Stream{Video: c.Video, Audio: c.Audio, Active: true}, nil
}

var lowVideo = Constraints{Video: true, Audio: true, Width: 640, Height: 480, FrameRate: 15}

func TestFallbacks(t *testing.T) {
	assert.Equal(t, []Constraints{{Audio: true}, lowVideo}, Fallbacks(FullAV))
	assert.Equal(t, []Constraints{lowVideo}, Fallbacks(Constraints{Video: true}))
	assert.Empty(t, Fallbacks(Constraints{Audio: true}))
}

func TestAcquireFirstRung(t *testing.T) {
	d := &scriptedDevice{}
	m := NewManager(d, 0, nil)

	s, err := m.Acquire(context.Background(), FullAV)
	require.NoError(t, err)
	assert.True(t, s.VideoEnabled)
	assert.True(t, s.AudioEnabled)
	assert.Equal(t, FullAV, s.Constraints)
	assert.False(t, s.AcquiredAt.IsZero())
	assert.True(t, m.IsReady())
	assert.Len(t, d.requests, 1)
}

func TestAcquireFallsBackToAudio(t *testing.T) {
	d := &scriptedDevice{fail: map[Constraints]error{
		FullAV: &DeviceError{Name: ErrNameNotReadable},
	}}
	m := NewManager(d, 0, nil)

	s, err := m.Acquire(context.Background(), FullAV)
	require.NoError(t, err)
	assert.False(t, s.Video)
	assert.True(t, s.Audio)
	assert.Equal(t, []Constraints{FullAV, {Audio: true}}, d.requests)
	assert.True(t, m.IsReady())
}

func TestAcquireReturnsFirstError(t *testing.T) {
	d := &scriptedDevice{fail: map[Constraints]error{
		FullAV:        &DeviceError{Name: ErrNameNotAllowed},
		{Audio: true}: &DeviceError{Name: ErrNameNotFound},
		lowVideo:      errors.New("boom"),
	}}
	m := NewManager(d, 0, nil)

	_, err := m.Acquire(context.Background(), FullAV)
	var de *DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrNameNotAllowed, de.Name)
	assert.Equal(t, "Camera and microphone access denied. Please allow permissions and try again.", de.Message())
	assert.Len(t, d.requests, 3)
	assert.False(t, m.IsReady())
	assert.Nil(t, m.CurrentStream())
	assert.Equal(t, err, m.LastError())
}

func TestAcquireTimeout(t *testing.T) {
	m := NewManager(&scriptedDevice{block: true}, 5*time.Millisecond, nil)
	_, err := m.Acquire(context.Background(), Constraints{Audio: true})
	var de *DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrNameTimeout, de.Name)
}

func TestToggleTrack(t *testing.T) {
	d := &scriptedDevice{}
	m := NewManager(d, 0, nil)

	assert.ErrorIs(t, m.ToggleTrack(context.Background(), KindVideo), ErrNoStream)

	_, err := m.Acquire(context.Background(), Constraints{Audio: true})
	require.NoError(t, err)

	require.NoError(t, m.ToggleTrack(context.Background(), KindAudio))
	assert.False(t, m.CurrentStream().AudioEnabled)
	assert.False(t, m.IsReady())
	require.NoError(t, m.ToggleTrack(context.Background(), KindAudio))
	assert.True(t, m.IsReady())

	// missing video track is acquired with the audio that is enabled
	require.NoError(t, m.ToggleTrack(context.Background(), KindVideo))
	s := m.CurrentStream()
	assert.True(t, s.Video)
	assert.True(t, s.Audio)
	assert.Equal(t, FullAV, d.requests[len(d.requests)-1])

	assert.Error(t, m.ToggleTrack(context.Background(), Kind("screen")))

	m.Release()
	assert.False(t, m.IsReady())
}

func TestDeviceErrorMessages(t *testing.T) {
	assert.Equal(t, "Media access failed: disk", (&DeviceError{Detail: "disk"}).Message())
	assert.Equal(t, "Failed to access camera and microphone", (&DeviceError{}).Error())
	assert.Contains(t, (&DeviceError{Name: ErrNameSecurity}).Message(), "HTTPS")
}

func TestReportedDevice(t *testing.T) {
	d := NewReportedDevice()
	_, err := d.GetUserMedia(context.Background(), FullAV)
	var de *DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrNameNotFound, de.Name)

	d.Report(Report{Error: ErrNameNotAllowed})
	_, err = d.GetUserMedia(context.Background(), FullAV)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrNameNotAllowed, de.Name)

	d.Report(Report{Audio: true})
	_, err = d.GetUserMedia(context.Background(), FullAV)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrNameOverconstraint, de.Name)

	s, err := d.GetUserMedia(context.Background(), Constraints{Audio: true})
	require.NoError(t, err)
	assert.True(t, s.Active)
	assert.False(t, s.Video)

	// through the manager the ladder lands on audio-only
	m := NewManager(d, 0, nil)
	st, err := m.Acquire(context.Background(), FullAV)
	require.NoError(t, err)
	assert.Equal(t, Constraints{Audio: true}, st.Constraints)
}
