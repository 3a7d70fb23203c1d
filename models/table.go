package models

type Occupancy string

const (
	OccupancyAvailable Occupancy = "available"
	OccupancyOccupied  Occupancy = "occupied"
	OccupancyReserved  Occupancy = "reserved"
)

type Table struct {
	ID       string    `json:"id"`
	Number   int       `json:"number"`
	Capacity int       `json:"capacity"`
	Status   Occupancy `json:"status"`
	RoomID   string    `json:"roomId,omitempty"`
}

type Room struct {
	ID             string    `json:"id"`
	Number         int       `json:"number"`
	Capacity       int       `json:"capacity"`
	Status         Occupancy `json:"status"`
	OccupiedTables []int     `json:"occupiedTables"`
}

// AddOccupiedTable merges n into the room's occupied list; reports whether it changed.
func (r *Room) AddOccupiedTable(n int) bool {
	for _, t := range r.OccupiedTables {
		if t == n {
			return false
		}
	}
	r.OccupiedTables = append(r.OccupiedTables, n)
	return true
}

// RemoveOccupiedTable drops n from the room's occupied list; reports whether it changed.
func (r *Room) RemoveOccupiedTable(n int) bool {
	kept := r.OccupiedTables[:0]
	removed := false
	for _, t := range r.OccupiedTables {
		if t == n {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	r.OccupiedTables = kept
	return removed
}
