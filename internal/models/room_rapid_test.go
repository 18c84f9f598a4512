package models_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/mfadhilr/typerace/internal/models"
)

func TestRoomLeaderboardProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "participants")

		room := models.NewRoom("AB12", models.NewParticipant("conn-0", "p0"), n)
		room.Players[0].Progress = rapid.Float64Range(0, 100).Draw(t, "progress0")
		for i := 1; i < n; i++ {
			p := models.NewParticipant(
				"conn-"+rapid.StringMatching(`[0-9]{1,4}`).Draw(t, "id"),
				rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "name"),
			)
			p.Progress = rapid.Float64Range(0, 100).Draw(t, "progress")
			room.Players = append(room.Players, p)
		}

		board := room.Leaderboard()

		if len(board) != len(room.Players) {
			t.Fatalf("leaderboard has %d rows for %d participants", len(board), len(room.Players))
		}

		for i := 1; i < len(board); i++ {
			if board[i-1].Progress < board[i].Progress {
				t.Fatalf("leaderboard not sorted at %d: %v before %v", i, board[i-1], board[i])
			}
		}

		// The board is a permutation of the roster projection.
		want := map[models.LeaderboardEntry]int{}
		for _, p := range room.Players {
			want[models.LeaderboardEntry{Name: p.Name, Progress: p.Progress}]++
		}
		for _, entry := range board {
			want[entry]--
			if want[entry] < 0 {
				t.Fatalf("leaderboard invented entry %v", entry)
			}
		}
	})
}
