package media

import (
	"context"
	"sync"
	"time"
)

// Report is the browser's description of what getUserMedia gave it.
type Report struct {
	Video bool   `json:"video"`
	Audio bool   `json:"audio"`
	Error string `json:"error,omitempty"`
}

// ReportedDevice answers acquisition requests from the last report posted
// by the browser, which owns the real devices.
type ReportedDevice struct {
	mu     sync.Mutex
	report *Report
}

func NewReportedDevice() *ReportedDevice { return &ReportedDevice{} }

func (d *ReportedDevice) Report(r Report) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := r
	d.report = &cp
}

func (d *ReportedDevice) GetUserMedia(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return Stream{}, err
	}
	d.mu.Lock()
	r := d.report
	d.mu.Unlock()
	if r == nil {
		return Stream{}, &DeviceError{Name: ErrNameNotFound}
	}
	if r.Error != "" {
		return Stream{}, &DeviceError{Name: r.Error}
	}
	if c.Video && !r.Video {
		return Stream{}, &DeviceError{Name: ErrNameOverconstraint}
	}
	if c.Audio && !r.Audio {
		return Stream{}, &DeviceError{Name: ErrNameOverconstraint}
	}
	s := Stream{
		Video:      c.Video && r.Video,
		Audio:      c.Audio && r.Audio,
		AcquiredAt: time.Now().UTC(),
	}
	s.Active = s.Video || s.Audio
	if !s.Active {
		return Stream{}, &DeviceError{Name: ErrNameNotFound}
	}
	return s, nil
}
