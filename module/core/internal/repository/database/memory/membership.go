package memory

import (
	"sort"
	"sync"

	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database"
)

var _ database.MembershipStore = (*MembershipStore)(nil)

// MembershipStore keeps vehicle -> zone -> inside in process memory.
// The detector is its only writer; the lock exists for API readers.
type MembershipStore struct {
	mu      sync.RWMutex
	records map[string]map[string]bool
}

func NewMembershipStore() *MembershipStore {
	return &MembershipStore{records: make(map[string]map[string]bool)}
}

func (s *MembershipStore) Get(vehicleID, zoneID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[vehicleID][zoneID]
}

func (s *MembershipStore) Set(vehicleID, zoneID string, inside bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	zones, ok := s.records[vehicleID]
	if !ok {
		zones = make(map[string]bool)
		s.records[vehicleID] = zones
	}
	zones[zoneID] = inside
}

// Inside returns the sorted ids of zones the vehicle was inside at the last cycle.
func (s *MembershipStore) Inside(vehicleID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for zoneID, inside := range s.records[vehicleID] {
		if inside {
			ids = append(ids, zoneID)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len counts tracked (vehicle, zone) pairs, inside or not.
func (s *MembershipStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, zones := range s.records {
		n += len(zones)
	}
	return n
}
