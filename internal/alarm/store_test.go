package alarm

import (
	"errors"
	"testing"

	gongerrors "github.com/tessro/gong/internal/errors"
)

func TestStoreCRUD(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if got := store.List(); len(got) != 0 {
		t.Fatalf("List() = %v, want empty", got)
	}

	late, err := store.Create(Alarm{Time: "21:00", Duration: 10, Active: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	early, err := store.Create(Alarm{Time: "06:45", Duration: 20, Days: []int{0, 1}, Track: 3})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if late.ID == early.ID {
		t.Fatalf("IDs not unique: %d", late.ID)
	}

	list := store.List()
	if len(list) != 2 || list[0].ID != early.ID {
		t.Errorf("List() = %+v, want earliest alarm first", list)
	}

	active := true
	updated, err := store.Update(early.ID, Patch{Active: &active})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.Active || updated.Time != "06:45" || updated.Track != 3 {
		t.Errorf("Update() = %+v, want only Active changed", updated)
	}

	// Reopen from disk.
	reopened, err := NewStore(dir, "")
	if err != nil {
		t.Fatalf("NewStore() reopen error = %v", err)
	}
	got, err := reopened.Get(early.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Active {
		t.Error("update was not persisted")
	}

	if err := reopened.Delete(late.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := reopened.Get(late.ID); !errors.Is(err, gongerrors.ErrAlarmNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrAlarmNotFound", err)
	}

	next, err := reopened.Create(Alarm{Time: "12:00", Duration: 1})
	if err != nil {
		t.Fatal(err)
	}
	if next.ID <= early.ID {
		t.Errorf("new ID %d reuses an old one", next.ID)
	}
}

func TestStoreErrors(t *testing.T) {
	store, err := NewStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Create(Alarm{Time: "nope", Duration: 1}); !errors.Is(err, gongerrors.ErrInvalidAlarm) {
		t.Errorf("Create() error = %v, want ErrInvalidAlarm", err)
	}
	if err := store.Delete(42); !errors.Is(err, gongerrors.ErrAlarmNotFound) {
		t.Errorf("Delete() error = %v, want ErrAlarmNotFound", err)
	}

	d := 5
	if _, err := store.Update(42, Patch{Duration: &d}); !errors.Is(err, gongerrors.ErrAlarmNotFound) {
		t.Errorf("Update() error = %v, want ErrAlarmNotFound", err)
	}

	a, _ := store.Create(Alarm{Time: "08:00", Duration: 1})
	if _, err := store.Update(a.ID, Patch{}); !errors.Is(err, gongerrors.ErrInvalidAlarm) {
		t.Errorf("Update(empty) error = %v, want ErrInvalidAlarm", err)
	}
	zero := 0
	if _, err := store.Update(a.ID, Patch{Duration: &zero}); !errors.Is(err, gongerrors.ErrInvalidAlarm) {
		t.Errorf("Update(duration=0) error = %v, want ErrInvalidAlarm", err)
	}
	if got, _ := store.Get(a.ID); got.Duration != 1 {
		t.Errorf("failed update changed Duration to %d", got.Duration)
	}
}
