package handlers

import (
	"fmt"
	"time"

	"github.com/gorilla/schema"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/session"
)

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type NewGameDTO struct {
	DimSize  *int `schema:"dim_size"`
	NumMines *int `schema:"num_mines"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	err := newDecoder().Decode(&dto, src)
	return dto, err
}

type DigDTO struct {
	Row  *int   `schema:"row"`
	Col  *int   `schema:"col"`
	Cell string `schema:"cell"`
}

func ParseDigDTO(src map[string][]string) (DigDTO, error) {
	var dto DigDTO
	err := newDecoder().Decode(&dto, src)
	return dto, err
}

// Coord accepts either a "row,col" cell or separate row and col values.
func (d DigDTO) Coord() (mines.Coord, error) {
	if d.Cell != "" {
		return mines.ParseCoord(d.Cell)
	}
	if d.Row == nil || d.Col == nil {
		return mines.Coord{}, fmt.Errorf("either cell or both row and col are required")
	}
	return mines.Coord{Row: *d.Row, Col: *d.Col}, nil
}

type HistoryDTO struct {
	Limit    int  `schema:"limit"`
	DimSize  *int `schema:"dim_size"`
	NumMines *int `schema:"num_mines"`
}

func ParseHistoryDTO(src map[string][]string) (HistoryDTO, error) {
	dto := HistoryDTO{Limit: 20}
	if err := newDecoder().Decode(&dto, src); err != nil {
		return dto, err
	}
	if dto.Limit < 1 || dto.Limit > 100 {
		return dto, fmt.Errorf("limit must be between 1 and 100")
	}
	if (dto.DimSize == nil) != (dto.NumMines == nil) {
		return dto, fmt.Errorf("dim_size and num_mines go together")
	}
	return dto, nil
}

type GameSessionDTO struct {
	GameSessionId string            `json:"game_session_id"`
	Grid          mines.VisibleGrid `json:"grid"`
	Solution      mines.VisibleGrid `json:"solution,omitempty"`
	DimSize       int               `json:"dim_size"`
	NumMines      int               `json:"num_mines"`
	Revealed      int               `json:"revealed"`
	Exploded      bool              `json:"exploded"`
	Result        string            `json:"result,omitempty"`
	StartedAt     int64             `json:"started_at"`
	EndedAt       *int64            `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(st *session.State) *GameSessionDTO {
	var endedAt *int64
	if st.EndedAt != nil {
		e := st.EndedAt.UnixMilli()
		endedAt = &e
	}
	f := st.Field
	dto := &GameSessionDTO{
		GameSessionId: st.ID.String(),
		Grid:          f.VisibleGrid(),
		DimSize:       f.DimSize(),
		NumMines:      f.NumMines(),
		Revealed:      f.RevealedCount(),
		Exploded:      f.IsExploded(),
		StartedAt:     st.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
	if st.Ended() {
		dto.Solution = f.Solution()
	}
	return dto
}

func (dto *GameSessionDTO) withResult(r mines.RevealResult) *GameSessionDTO {
	dto.Result = r.String()
	return dto
}

func playtime(st *session.State) time.Duration {
	if st.EndedAt == nil {
		return time.Since(st.StartedAt)
	}
	return st.EndedAt.Sub(st.StartedAt)
}
