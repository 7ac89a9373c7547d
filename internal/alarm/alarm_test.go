package alarm

import (
	"errors"
	"testing"
	"time"

	gongerrors "github.com/tessro/gong/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		alarm   Alarm
		wantErr bool
		want    string
	}{
		{"ok", Alarm{Time: "07:30", Duration: 30}, false, "07:30"},
		{"pads hour", Alarm{Time: "7:05", Duration: 30}, false, "07:05"},
		{"no colon", Alarm{Time: "0730", Duration: 30}, true, ""},
		{"bad hour", Alarm{Time: "24:00", Duration: 30}, true, ""},
		{"bad minute", Alarm{Time: "10:7", Duration: 30}, true, ""},
		{"zero duration", Alarm{Time: "10:00"}, true, ""},
		{"day out of range", Alarm{Time: "10:00", Duration: 5, Days: []int{7}}, true, ""},
		{"negative track", Alarm{Time: "10:00", Duration: 5, Track: -1}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.alarm
			err := a.Validate()
			if tt.wantErr {
				if !errors.Is(err, gongerrors.ErrInvalidAlarm) {
					t.Errorf("Validate() error = %v, want ErrInvalidAlarm", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if a.Time != tt.want {
				t.Errorf("Time = %q, want %q", a.Time, tt.want)
			}
			if a.Track != DefaultTrack {
				t.Errorf("Track = %d, want default %d", a.Track, DefaultTrack)
			}
		})
	}
}

func TestDue(t *testing.T) {
	// 2024-01-01 is a Monday.
	monday := time.Date(2024, 1, 1, 7, 30, 42, 0, time.Local)

	tests := []struct {
		name  string
		alarm Alarm
		at    time.Time
		want  bool
	}{
		{"every day", Alarm{Time: "07:30", Active: true}, monday, true},
		{"inactive", Alarm{Time: "07:30"}, monday, false},
		{"other minute", Alarm{Time: "07:31", Active: true}, monday, false},
		{"monday only", Alarm{Time: "07:30", Days: []int{0}, Active: true}, monday, true},
		{"weekend only", Alarm{Time: "07:30", Days: []int{5, 6}, Active: true}, monday, false},
		{"sunday", Alarm{Time: "07:30", Days: []int{6}, Active: true}, monday.AddDate(0, 0, 6), true},
	}
	for _, tt := range tests {
		if got := tt.alarm.Due(tt.at); got != tt.want {
			t.Errorf("%s: Due() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseDays(t *testing.T) {
	got, err := ParseDays("mon, 2,Fri")
	if err != nil {
		t.Fatalf("ParseDays() error = %v", err)
	}
	want := []int{0, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("ParseDays() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseDays()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if days, _ := ParseDays("daily"); len(days) != 0 {
		t.Errorf("ParseDays(daily) = %v, want empty", days)
	}
	if _, err := ParseDays("someday"); err == nil {
		t.Error("ParseDays(someday) error = nil, want error")
	}
}

func TestDaysString(t *testing.T) {
	if got := (Alarm{}).DaysString(); got != "every day" {
		t.Errorf("DaysString() = %q, want %q", got, "every day")
	}
	if got := (Alarm{Days: []int{0, 6}}).DaysString(); got != "Mon,Sun" {
		t.Errorf("DaysString() = %q, want %q", got, "Mon,Sun")
	}
}
