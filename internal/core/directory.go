package core

import "sync"

// Directory tracks every live room and allocates room ids. Ids are
// strictly increasing from 1 and are never reused within the process
// lifetime, even after the room they named is deleted.
type Directory struct {
	mu     sync.Mutex
	nextID int64
	rooms  map[int64]*Room
	order  []int64 // creation order, always the same id set as rooms
}

// NewDirectory constructs an empty directory.
func NewDirectory() *Directory {
	return &Directory{rooms: make(map[int64]*Room)}
}

// Create allocates the next id and registers an empty room under it. The
// returned room is handed straight to the creator so its first join can
// never miss.
func (d *Directory) Create() *Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	room := newRoom(d.nextID)
	d.rooms[room.ID] = room
	d.order = append(d.order, room.ID)
	return room
}

// Get returns the live room with the given id. An id that was never
// allocated, or whose room has since been deleted, is a lookup failure,
// not an auto-create.
func (d *Directory) Get(id int64) (*Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	room, ok := d.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Delete drops id from the directory once its room has emptied. The
// empty check and the closing of the room run under both locks: a join
// that slipped in after the last leave keeps the room alive, and a join
// arriving any later finds the room closed. Idempotent.
func (d *Directory) Delete(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	room, ok := d.rooms[id]
	if !ok {
		return
	}
	if !room.closeIfEmpty() {
		return
	}
	delete(d.rooms, id)
	for i, v := range d.order {
		if v == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// ListIDs returns the live room ids in creation order.
func (d *Directory) ListIDs() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int64(nil), d.order...)
}

// RoomInfo is a point-in-time view of one live room.
type RoomInfo struct {
	ID      int64
	Members int
}

// Snapshot returns the live rooms with their membership sizes, in
// creation order. Counts are read after the directory lock is released;
// they may lag a concurrent join or leave by a moment.
func (d *Directory) Snapshot() []RoomInfo {
	d.mu.Lock()
	rooms := make([]*Room, 0, len(d.order))
	for _, id := range d.order {
		rooms = append(rooms, d.rooms[id])
	}
	d.mu.Unlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, RoomInfo{ID: room.ID, Members: room.MemberCount()})
	}
	return infos
}
