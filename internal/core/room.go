package core

import (
	"fmt"
	"sort"
	"sync"
)

// member is one room occupant. Leave matches on both fields so a stale
// entry cannot evict the nickname's current channel.
type member struct {
	nick string
	ch   Channel
}

// Room is a mutable membership set with broadcast. Its mutex covers
// membership mutation and recipient snapshotting only; the line writes
// happen after the lock is released, so one stalled client cannot hold
// up joins, leaves, or other members' delivery.
type Room struct {
	// ID is assigned by the directory and never changes.
	ID int64

	mu      sync.Mutex
	members []member
	closed  bool
}

func newRoom(id int64) *Room {
	return &Room{ID: id}
}

// Join adds the client to the room and announces it to the membership as
// it stands after the insert, the joiner included. A room the directory
// has already deleted is closed; joining it fails with ErrRoomNotFound
// instead of stranding the client in a room nobody can find.
func (r *Room) Join(nick string, ch Channel) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	r.members = append(r.members, member{nick: nick, ch: ch})
	targets := r.snapshotLocked()
	r.mu.Unlock()

	deliver(targets, fmt.Sprintf("%s has joined", nick))
	return nil
}

// closeIfEmpty marks the room closed when no members remain, so a join
// that resolved the room before its deletion cannot land afterwards.
// Reports whether the room closed.
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.members) > 0 {
		return false
	}
	r.closed = true
	return true
}

// Leave removes the client matching both nick and ch, then announces the
// departure to the remaining members. It reports whether the room is now
// empty; the caller is responsible for deleting an emptied room from the
// directory.
func (r *Room) Leave(nick string, ch Channel) bool {
	r.mu.Lock()
	removed := false
	for i, m := range r.members {
		if m.nick == nick && m.ch == ch {
			r.members = append(r.members[:i], r.members[i+1:]...)
			removed = true
			break
		}
	}
	empty := len(r.members) == 0
	targets := r.snapshotLocked()
	r.mu.Unlock()

	if removed {
		deliver(targets, fmt.Sprintf("%s has left", nick))
	}
	return empty
}

// BroadcastAll delivers line to every member present when the call was
// made.
func (r *Room) BroadcastAll(line string) {
	r.mu.Lock()
	targets := r.snapshotLocked()
	r.mu.Unlock()

	deliver(targets, line)
}

// BroadcastExcluding delivers line to every member except sender. Used
// for ordinary room chat so the room never echoes a message back at its
// author.
func (r *Room) BroadcastExcluding(sender, line string) {
	r.mu.Lock()
	targets := make([]member, 0, len(r.members))
	for _, m := range r.members {
		if m.nick != sender {
			targets = append(targets, m)
		}
	}
	r.mu.Unlock()

	deliver(targets, line)
}

// MemberNames returns a sorted snapshot of the nicknames in the room.
func (r *Room) MemberNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.members))
	for _, m := range r.members {
		names = append(names, m.nick)
	}
	sort.Strings(names)
	return names
}

// MemberCount reports the current membership size.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *Room) snapshotLocked() []member {
	return append([]member(nil), r.members...)
}

// deliver writes to each target outside any lock. A failed write means
// that client is gone; its own session notices the dead connection and
// cleans up, so the error is dropped here and delivery continues to the
// rest.
func deliver(targets []member, line string) {
	for _, m := range targets {
		_ = m.ch.SendLine(line)
	}
}
