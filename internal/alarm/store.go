package alarm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	gongerrors "github.com/tessro/gong/internal/errors"
)

// DefaultFileName is the alarm file under the storage root.
const DefaultFileName = "alarms.json"

type fileData struct {
	NextID int     `json:"next_id"`
	Alarms []Alarm `json:"alarms"`
}

// Store persists alarms as a JSON document.
type Store struct {
	path string

	mu   sync.Mutex
	data fileData
}

// NewStore opens the alarm file at root/name, creating an empty schedule if
// the file does not exist.
func NewStore(root, name string) (*Store, error) {
	if name == "" {
		name = DefaultFileName
	}
	s := &Store{
		path: filepath.Join(root, name),
		data: fileData{NextID: 1},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %v", gongerrors.ErrStorageUnavailable, err)
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	for _, a := range data.Alarms {
		if a.ID >= data.NextID {
			data.NextID = a.ID + 1
		}
	}
	if data.NextID < 1 {
		data.NextID = 1
	}
	s.data = data
	return nil
}

func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".alarms-*")
	if err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrConfigWrite, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", gongerrors.ErrConfigWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", gongerrors.ErrConfigWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", gongerrors.ErrConfigWrite, err)
	}
	return nil
}

// Path returns the alarm file path.
func (s *Store) Path() string {
	return s.path
}

// List returns all alarms ordered by time of day, then ID.
func (s *Store) List() []Alarm {
	s.mu.Lock()
	out := make([]Alarm, len(s.data.Alarms))
	copy(out, s.data.Alarms)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get returns the alarm with id.
func (s *Store) Get(id int) (Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Alarm{}, gongerrors.ErrAlarmNotFound
	}
	return s.data.Alarms[i], nil
}

// Create validates a, assigns it an ID and stores it.
func (s *Store) Create(a Alarm) (Alarm, error) {
	if err := a.Validate(); err != nil {
		return Alarm{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.data.NextID
	s.data.NextID++
	s.data.Alarms = append(s.data.Alarms, a)
	if err := s.save(); err != nil {
		s.data.Alarms = s.data.Alarms[:len(s.data.Alarms)-1]
		s.data.NextID--
		return Alarm{}, err
	}
	return a, nil
}

// Update applies p to the alarm with id.
func (s *Store) Update(id int, p Patch) (Alarm, error) {
	if p.Empty() {
		return Alarm{}, fmt.Errorf("%w: no fields to update", gongerrors.ErrInvalidAlarm)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Alarm{}, gongerrors.ErrAlarmNotFound
	}

	updated := s.data.Alarms[i]
	p.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return Alarm{}, err
	}

	prev := s.data.Alarms[i]
	s.data.Alarms[i] = updated
	if err := s.save(); err != nil {
		s.data.Alarms[i] = prev
		return Alarm{}, err
	}
	return updated, nil
}

// Delete removes the alarm with id.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return gongerrors.ErrAlarmNotFound
	}

	prev := s.data.Alarms
	alarms := make([]Alarm, 0, len(prev)-1)
	alarms = append(alarms, prev[:i]...)
	alarms = append(alarms, prev[i+1:]...)
	s.data.Alarms = alarms
	if err := s.save(); err != nil {
		s.data.Alarms = prev
		return err
	}
	return nil
}

func (s *Store) index(id int) int {
	for i, a := range s.data.Alarms {
		if a.ID == id {
			return i
		}
	}
	return -1
}
