package timer_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/mauv0809/kendo-tally/internal/timer"
	. "github.com/smartystreets/goconvey/convey"
)

var epoch = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestTimer(t *testing.T) {
	Convey("Given a new timer", t, func() {
		clock := timer.NewManualClock(epoch)
		tm := timer.New()

		Convey("It starts stopped at zero", func() {
			So(tm.State(), ShouldEqual, timer.StateStopped)
			So(tm.Elapsed(clock.Now()), ShouldEqual, time.Duration(0))
		})

		Convey("When started and the clock advances", func() {
			tm = tm.Start(clock.Now())
			clock.Advance(1500 * time.Millisecond)

			Convey("Then elapsed follows the wall clock", func() {
				So(tm.State(), ShouldEqual, timer.StateRunning)
				So(tm.ElapsedMs(clock.Now()), ShouldEqual, int64(1500))
			})

			Convey("And reading elapsed does not change the timer", func() {
				before := tm
				_ = tm.Elapsed(clock.Now())
				_ = tm.Elapsed(clock.Now())
				So(tm, ShouldResemble, before)
			})

			Convey("And starting again is a no-op", func() {
				clock.Advance(time.Second)
				So(tm.Start(clock.Now()).ElapsedMs(clock.Now()), ShouldEqual, int64(2500))
			})

			Convey("And pausing freezes the total", func() {
				tm = tm.Pause(clock.Now())
				clock.Advance(10 * time.Second)
				So(tm.State(), ShouldEqual, timer.StatePaused)
				So(tm.ElapsedMs(clock.Now()), ShouldEqual, int64(1500))

				Convey("And resuming accumulates on top", func() {
					tm = tm.Start(clock.Now())
					clock.Advance(500 * time.Millisecond)
					So(tm.ElapsedMs(clock.Now()), ShouldEqual, int64(2000))
				})

				Convey("And pausing again is a no-op", func() {
					So(tm.Pause(clock.Now()), ShouldResemble, tm)
				})
			})

			Convey("And a late pause still counts the whole stretch", func() {
				clock.Advance(3 * time.Minute)
				tm = tm.Pause(clock.Now())
				So(tm.Elapsed(clock.Now()), ShouldEqual, 3*time.Minute+1500*time.Millisecond)
			})

			Convey("And reset zeroes and stops it", func() {
				tm = tm.Reset()
				So(tm.State(), ShouldEqual, timer.StateStopped)
				So(tm.Elapsed(clock.Now()), ShouldEqual, time.Duration(0))
			})
		})

		Convey("When the clock steps backwards while running", func() {
			tm = tm.Start(clock.Now())
			clock.Advance(time.Second)
			before := tm.Elapsed(clock.Now())
			clock.Set(epoch.Add(-time.Hour))

			Convey("Then elapsed never drops below zero progress", func() {
				So(tm.Elapsed(clock.Now()), ShouldBeGreaterThanOrEqualTo, time.Duration(0))
				So(before, ShouldEqual, time.Second)
			})
		})
	})
}

func TestTimer_ElapsedIsMonotonic(t *testing.T) {
	Convey("Given any sequence of start, pause and reads without reset", t, func() {
		rng := rand.New(rand.NewSource(42))
		clock := timer.NewManualClock(epoch)
		tm := timer.New()
		last := time.Duration(0)
		decreased := false

		for i := 0; i < 500; i++ {
			clock.Advance(time.Duration(rng.Intn(2000)) * time.Millisecond)
			switch rng.Intn(3) {
			case 0:
				tm = tm.Start(clock.Now())
			case 1:
				tm = tm.Pause(clock.Now())
			}
			got := tm.Elapsed(clock.Now())
			if got < last {
				decreased = true
			}
			last = got
		}

		So(decreased, ShouldBeFalse)
	})
}

func TestFormatElapsed(t *testing.T) {
	Convey("FormatElapsed renders minutes, seconds and centiseconds", t, func() {
		So(timer.FormatElapsed(0), ShouldEqual, "00:00.00")
		So(timer.FormatElapsed(83*time.Second+456*time.Millisecond), ShouldEqual, "01:23.45")
		So(timer.FormatElapsed(-time.Second), ShouldEqual, "00:00.00")
	})
}

func TestStamp(t *testing.T) {
	Convey("Stamp yields a UTC time without a monotonic reading", t, func() {
		jst := time.FixedZone("JST", 9*60*60)
		clock := timer.NewManualClock(epoch.In(jst))
		got := timer.Stamp(clock)
		So(got.Location(), ShouldEqual, time.UTC)
		So(got.Equal(epoch), ShouldBeTrue)

		live := timer.Stamp(timer.SystemClock())
		So(live, ShouldResemble, live.Round(0))
	})
}
