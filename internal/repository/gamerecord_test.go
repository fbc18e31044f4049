package repository

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/vancomm/minefield/internal/mines"
)

func TestGameRecordFilterWhereClause(t *testing.T) {
	sessionId := "abc"
	tests := []struct {
		name   string
		filter GameRecordFilter
		clause string
		args   pgx.NamedArgs
	}{
		{"empty", GameRecordFilter{Limit: 5}, "", pgx.NamedArgs{}},
		{
			"session",
			GameRecordFilter{SessionId: &sessionId},
			"session_id = @session_id",
			pgx.NamedArgs{"session_id": "abc"},
		},
		{
			"params",
			GameRecordFilter{
				SessionId: &sessionId,
				Params:    &mines.GameParams{DimSize: 10, NumMines: 12},
			},
			"session_id = @session_id AND dim_size = @dim_size AND num_mines = @num_mines",
			pgx.NamedArgs{"session_id": "abc", "dim_size": 10, "num_mines": 12},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clause, args := test.filter.WhereClause()
			assert.Equal(t, test.clause, clause)
			assert.Equal(t, test.args, args)
		})
	}
}
