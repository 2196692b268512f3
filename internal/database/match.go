// internal/database/match.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/cache"
)

// finishedAt converts a queue record's epoch-milliseconds timestamp into
// the time.Time stored in finished_at. Passing the raw integer through
// to_timestamp would misread it as epoch seconds.
func finishedAt(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

// RecordMatchResult persists a finished match. The match row and its
// per-player result rows are upserted in one transaction so a replayed
// queue entry cannot produce duplicates.
func RecordMatchResult(ctx context.Context, rec cache.MatchResultRecord) error {
	scoresJSON, err := json.Marshal(rec.Scores)
	if err != nil {
		return fmt.Errorf("marshal team scores: %w", err)
	}

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertMatch := `
			INSERT INTO matches (room_id, winning_team, team_scores, finished_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (room_id)
			DO UPDATE SET winning_team = $2, team_scores = $3, finished_at = $4
		`
		if _, e := tx.Exec(ctx, upsertMatch, rec.RoomID, rec.WinningTeam, scoresJSON, finishedAt(rec.Timestamp)); e != nil {
			return e
		}

		for playerID, teamID := range rec.Players {
			q := `
				INSERT INTO match_results (room_id, player_id, team_id, did_win)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (room_id, player_id)
				DO UPDATE SET team_id = $3, did_win = $4
			`
			didWin := teamID == rec.WinningTeam
			if _, e := tx.Exec(ctx, q, rec.RoomID, playerID, teamID, didWin); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert match or results: %w", err)
	}
	return nil
}
