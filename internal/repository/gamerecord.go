package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vancomm/minefield/internal/mines"
)

// GameRecord is the outcome of a finished game: it exploded, or the player
// started over before it did.
type GameRecord struct {
	GameRecordId int64     `db:"game_record_id" json:"game_record_id"`
	SessionId    string    `db:"session_id" json:"session_id"`
	DimSize      int       `db:"dim_size" json:"dim_size"`
	NumMines     int       `db:"num_mines" json:"num_mines"`
	Exploded     bool      `db:"exploded" json:"exploded"`
	Revealed     int       `db:"revealed" json:"revealed"`
	StartedAt    time.Time `db:"started_at" json:"started_at"`
	EndedAt      time.Time `db:"ended_at" json:"ended_at"`
}

type CreateGameRecordParams struct {
	SessionId string
	Params    mines.GameParams
	Exploded  bool
	Revealed  int
	StartedAt time.Time
	EndedAt   time.Time
}

func (q Queries) CreateGameRecord(
	ctx context.Context, params CreateGameRecordParams,
) (*GameRecord, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_record (
			session_id, dim_size, num_mines, exploded, revealed, started_at, ended_at
		)
		VALUES (
			@session_id, @dim_size, @num_mines, @exploded, @revealed, @started_at, @ended_at
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"session_id": params.SessionId,
			"dim_size":   params.Params.DimSize,
			"num_mines":  params.Params.NumMines,
			"exploded":   params.Exploded,
			"revealed":   params.Revealed,
			"started_at": params.StartedAt,
			"ended_at":   params.EndedAt,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameRecord])
}

type GameRecordFilter struct {
	SessionId *string
	Params    *mines.GameParams
	Limit     int
}

func (f GameRecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.SessionId != nil {
		clauses = append(clauses, "session_id = @session_id")
		args["session_id"] = *f.SessionId
	}
	if f.Params != nil {
		clauses = append(clauses, "dim_size = @dim_size", "num_mines = @num_mines")
		args["dim_size"] = f.Params.DimSize
		args["num_mines"] = f.Params.NumMines
	}
	return strings.Join(clauses, " AND "), args
}

func (q Queries) ListGameRecords(
	ctx context.Context, filter GameRecordFilter,
) ([]GameRecord, error) {
	query := "SELECT * FROM game_record"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY ended_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = filter.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[GameRecord])
}
