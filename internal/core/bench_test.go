package core

import (
	"fmt"
	"testing"
)

func benchmarkRoomBroadcast(b *testing.B, members int) {
	room := newRoom(1)
	for i := 0; i < members; i++ {
		room.Join(fmt.Sprintf("user-%d", i), &discardChannel{})
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		room.BroadcastExcluding("user-0", "user-0 : payload")
	}
}

type discardChannel struct{}

func (discardChannel) SendLine(string) error { return nil }
func (discardChannel) Close() error          { return nil }

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_100(b *testing.B) { benchmarkRoomBroadcast(b, 100) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }
