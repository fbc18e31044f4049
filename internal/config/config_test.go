package config

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardDefaults(t *testing.T) {
	b, err := NewBoard()
	require.NoError(t, err)
	assert.Equal(t, Board{
		MinSize: 5, MaxSize: 20, DefaultSize: 10,
		MinMines: 1, MaxMines: 100, DefaultMines: 10,
	}, *b)
}

func TestNewBoardFromEnv(t *testing.T) {
	t.Setenv("BOARD_MAX_SIZE", "30")
	t.Setenv("BOARD_MAX_MINES", "abc")
	_, err := NewBoard()
	assert.Error(t, err)

	t.Setenv("BOARD_MAX_MINES", "200")
	b, err := NewBoard()
	require.NoError(t, err)
	assert.Equal(t, 30, b.MaxSize)
	assert.Equal(t, 200, b.MaxMines)
}

func TestBoardCheck(t *testing.T) {
	b := Board{MinSize: 5, MaxSize: 20, MinMines: 1, MaxMines: 100}
	tests := []struct {
		size, mines int
		ok          bool
	}{
		{5, 1, true},
		{20, 100, true},
		{10, 99, true},
		{10, 100, false},
		{5, 24, true},
		{4, 1, false},
		{21, 1, false},
		{10, 0, false},
		{10, 101, false},
		{5, 25, false},
	}
	for _, test := range tests {
		err := b.Check(test.size, test.mines)
		if test.ok {
			assert.NoError(t, err, "%dx%d(%d)", test.size, test.size, test.mines)
		} else {
			assert.Error(t, err, "%dx%d(%d)", test.size, test.size, test.mines)
		}
	}
}

func TestNewSession(t *testing.T) {
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	s, err := NewSession()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, s.IdleTimeout)
	assert.Equal(t, time.Minute, s.SweepInterval)

	t.Setenv("SESSION_SWEEP_INTERVAL", "0s")
	_, err = NewSession()
	assert.Error(t, err)
}

func TestNewDatabase(t *testing.T) {
	t.Setenv("POSTGRES_USER", "mines")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_DB", "minefield")

	assert.True(t, DatabaseEnabled())

	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://mines:p%40ss+word@db:5432/minefield?sslmode=disable", url)

	t.Setenv("DATABASE_URL", "postgresql://other")
	url, err = DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://other", url)
}

func TestCookiesRoundTrip(t *testing.T) {
	t.Setenv("COOKIES_DOMAIN", "localhost")
	t.Setenv("COOKIES_SECURE", "0")
	t.Setenv("COOKIES_SAMESITE", "lax")

	j, err := NewJWTWithSecret([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	cookies, err := NewCookies(j)
	require.NoError(t, err)
	assert.False(t, cookies.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies.SameSite)

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Refresh(rec, "session-1"))

	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	claims, err := cookies.ParseSessionClaims(req)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionId)

	forged := httptest.NewRequest(http.MethodGet, "/game", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sign" {
			c.Value = "AAAA"
		}
		forged.AddCookie(c)
	}
	_, err = cookies.ParseSessionClaims(forged)
	assert.Error(t, err)
}

func TestNewJWTRejectsShortSecret(t *testing.T) {
	_, err := NewJWTWithSecret([]byte("short"))
	assert.Error(t, err)
}

func TestNewWebSocket(t *testing.T) {
	t.Setenv("WS_PONG_WAIT", "10s")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	ws, err := NewWebSocket()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, ws.PongWait)
	assert.Equal(t, 9*time.Second, ws.PingPeriod())
	assert.Equal(t, int64(512), ws.ReadLimit)

	for origin, ok := range map[string]bool{
		"":                 true,
		"http://b.example": true,
		"http://c.example": false,
	} {
		r := httptest.NewRequest(http.MethodGet, "/game/x/connect", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		assert.Equal(t, ok, ws.Upgrader.CheckOrigin(r), "origin %q", origin)
	}

	t.Setenv("WS_READ_LIMIT", "0")
	_, err = NewWebSocket()
	assert.Error(t, err)
}
