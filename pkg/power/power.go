// Package power provides the suspension strategies behind the control loop's
// idle periods. TimerSleeper parks in-process and is what development, tests
// and the simulator use; LogindSleeper arms the RTC wakealarm and suspends the
// whole board through logind, which is the battery-powered deployment mode.
package power

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/coreos/go-systemd/v22/login1"
)

// Wake tells the control loop why a suspension ended.
type Wake int

const (
	WakeTimer Wake = iota // slept the full planned duration
	WakeInput             // interrupted by input activity
)

// String returns the wake reason for logs.
func (w Wake) String() string {
	if w == WakeInput {
		return "input"
	}
	return "timer"
}

// TimerSleeper suspends nothing: it blocks until the duration elapses, the
// wake channel fires or the context is cancelled. The process keeps running,
// so input watchers stay alive and can interrupt the sleep.
type TimerSleeper struct{}

// Sleep blocks for up to d. A ping on wake ends it early with WakeInput.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration, wake <-chan struct{}) (Wake, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return WakeTimer, ctx.Err()
	case <-timer.C:
		return WakeTimer, nil
	case <-wake:
		return WakeInput, nil
	}
}

// LogindSleeper suspends the machine to RAM via logind after arming the RTC
// wakealarm for the planned wake time. Resume is detected by the monotonic
// clock freezing over the suspension while the wall clock keeps going.
type LogindSleeper struct {
	rtc  string // rtc device name under /sys/class/rtc, e.g. "rtc0"
	conn *login1.Conn
	now  func() time.Time
	tick time.Duration
}

// NewLogindSleeper connects to logind and prepares a sleeper armed through the
// given rtc device.
func NewLogindSleeper(rtcDevice string) (*LogindSleeper, error) {
	conn, err := login1.New()
	if err != nil {
		return nil, fmt.Errorf("connect to logind: %w", err)
	}
	return &LogindSleeper{rtc: rtcDevice, conn: conn, now: time.Now, tick: time.Second}, nil
}

// Sleep arms the wakealarm, asks logind to suspend and waits for the resume.
// The wake channel still ends the sleep early in the window before the kernel
// actually suspends; after resume any wake ping is handled by the next loop
// cycle instead.
func (s *LogindSleeper) Sleep(ctx context.Context, d time.Duration, wake <-chan struct{}) (Wake, error) {
	wakeAt := s.now().Add(d)
	if err := s.arm(wakeAt); err != nil {
		return WakeTimer, err
	}
	log.Printf("[DEBUG] rtc %s alarm armed for %s, suspending", s.rtc, wakeAt.Format(time.RFC3339))
	s.conn.Suspend(false)
	return s.await(ctx, wakeAt, wake)
}

// arm writes the wake time into the rtc wakealarm, clearing any previous
// alarm first as the kernel requires.
func (s *LogindSleeper) arm(at time.Time) error {
	p := filepath.Join("/sys/class/rtc", s.rtc, "wakealarm")
	if err := os.WriteFile(p, []byte("0"), 0o200); err != nil {
		return fmt.Errorf("clear wakealarm: %w", err)
	}
	if err := os.WriteFile(p, []byte(strconv.FormatInt(at.Unix(), 10)), 0o200); err != nil {
		return fmt.Errorf("arm wakealarm for %s: %w", at.Format(time.RFC3339), err)
	}
	return nil
}

// await watches for the resume. Suspension freezes the monotonic clock, so a
// gap between wall-clock and monotonic elapsed time marks a completed
// suspend/resume round trip. If the wall deadline passes without any gap the
// suspend never happened (denied by polkit, or running outside systemd) and
// the call degrades to a plain timer sleep.
func (s *LogindSleeper) await(ctx context.Context, wakeAt time.Time, wake <-chan struct{}) (Wake, error) {
	const resumeGap = 2 * time.Second

	start := s.now()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return WakeTimer, ctx.Err()
		case <-wake:
			return WakeInput, nil
		case <-ticker.C:
			now := s.now()
			mono := now.Sub(start)                   // monotonic elapsed
			wall := now.Round(0).Sub(start.Round(0)) // wall elapsed, monotonic reading stripped
			if wall-mono > resumeGap {
				return WakeTimer, nil
			}
			if now.Round(0).After(wakeAt) {
				log.Printf("[WARN] suspend to RAM never happened, slept in-process until %s", wakeAt.Format(time.RFC3339))
				return WakeTimer, nil
			}
		}
	}
}
