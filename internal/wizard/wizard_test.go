package wizard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tessro/gong/internal/alarm"
)

func TestValidateSSID(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"Home", false},
		{"  ", true},
		{"", true},
		{strings.Repeat("x", 32), false},
		{strings.Repeat("x", 33), true},
	}

	for _, tt := range tests {
		if err := ValidateSSID(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ValidateSSID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(""); err == nil {
		t.Error("ValidatePassword(\"\") error = nil, want error")
	}
	if err := ValidatePassword("x"); err != nil {
		t.Errorf("ValidatePassword(\"x\") error = %v", err)
	}
}

func TestAlarmPickerSelects(t *testing.T) {
	alarms := []alarm.Alarm{
		{ID: 1, Time: "06:00", Active: true, Track: 1, Duration: 10},
		{ID: 2, Time: "07:15", Track: 3, Duration: 5},
	}

	var m tea.Model = NewAlarmModel("Remove alarm", alarms)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Error("enter should quit the picker")
	}
	got := m.(AlarmModel).Selected()
	if got == nil || got.ID != 2 {
		t.Errorf("Selected() = %+v, want alarm 2", got)
	}
}

func TestAlarmPickerCancel(t *testing.T) {
	var m tea.Model = NewAlarmModel("Remove alarm", []alarm.Alarm{{ID: 1, Time: "06:00"}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(AlarmModel).Selected() != nil {
		t.Error("Selected() after esc should be nil")
	}
}

func TestAlarmPickerView(t *testing.T) {
	view := NewAlarmModel("Remove alarm", []alarm.Alarm{{ID: 1, Time: "06:00", Days: []int{0, 2}, Track: 4, Duration: 30}}).View()
	for _, want := range []string{"Remove alarm", "06:00", "Mon,Wed", "track 4"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
