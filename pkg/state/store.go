package state

import (
	"sync"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

// Store holds the latest accepted telemetry record per vehicle. It is the
// single source the monitoring pass evaluates, and it is republished to the
// display layer after each update.
type Store struct {
	mu      sync.RWMutex
	records map[domain.VehicleID]*domain.TelemetryRecord
}

func NewStore() *Store {
	return &Store{records: make(map[domain.VehicleID]*domain.TelemetryRecord)}
}

// Update replaces the vehicle's record with a copy of rec.
func (s *Store) Update(rec domain.TelemetryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := rec
	if rec.Position != nil {
		pos := *rec.Position
		clone.Position = &pos
	}
	s.records[rec.VehicleID] = &clone
}

// SetStatus overwrites one vehicle's status in place. Returns false when the
// vehicle has no record yet.
func (s *Store) SetStatus(id domain.VehicleID, status domain.VehicleStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return false
	}
	rec.VehicleStatus = status
	return true
}

// Status returns the vehicle's current status, or "" without a record.
func (s *Store) Status(id domain.VehicleID) domain.VehicleStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[id]; ok {
		return rec.VehicleStatus
	}
	return ""
}

// Snapshot returns an isolated copy of the current state. Nil when no vehicle
// has reported yet, so the monitoring pass short-circuits.
func (s *Store) Snapshot() *domain.TelemetrySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil
	}

	snap := &domain.TelemetrySnapshot{}
	for id, rec := range s.records {
		clone := *rec
		if rec.Position != nil {
			pos := *rec.Position
			clone.Position = &pos
		}
		switch id {
		case domain.VehicleERU:
			snap.ERU = &clone
		case domain.VehicleMEA:
			snap.MEA = &clone
		case domain.VehicleMRA:
			snap.MRA = &clone
		}
	}
	return snap
}
