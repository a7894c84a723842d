package table

import (
	"context"
	"testing"
	"time"

	"liwamenu-be/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"https://cafe.liwamenu.com?restaurantId=42&tableNumber=7", 7, true},
		{"https://cafe.liwamenu.com/menu?tableNumber=12#top", 12, true},
		{"tableNumber=3", 3, true},
		{"scan:restaurant=1;tableNumber=15;v=2", 15, true},
		{"  https://x.io/?tableNumber=9  ", 9, true},
		{"https://cafe.liwamenu.com?tableNumber=0", 0, false},
		{"https://cafe.liwamenu.com?tableNumber=-2", 0, false},
		{"https://cafe.liwamenu.com?tableNumber=abc", 0, false},
		{"https://cafe.liwamenu.com?restaurantId=42", 0, false},
		{"7", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, ok := ParseTableNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestService_Change(t *testing.T) {
	issuer, err := session.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	svc := NewService(issuer)
	ctx := context.Background()

	_, sess, err := issuer.Issue(nil)
	require.NoError(t, err)

	t.Run("Seat a session", func(t *testing.T) {
		token, claims, err := svc.Change(ctx, sess, "https://cafe.liwamenu.com?tableNumber=4")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, sess.SessionID, claims.SessionID)
		require.True(t, claims.HasTable())
		assert.Equal(t, 4, *claims.TableNumber)

		parsed, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, 4, *parsed.TableNumber)
	})

	t.Run("Same table", func(t *testing.T) {
		four := 4
		seated := &session.Claims{SessionID: sess.SessionID, TableNumber: &four}
		_, _, err := svc.Change(ctx, seated, "tableNumber=4")
		assert.ErrorIs(t, err, ErrSameTable)
	})

	t.Run("Unreadable code", func(t *testing.T) {
		_, _, err := svc.Change(ctx, sess, "hello")
		assert.ErrorIs(t, err, ErrNoTableInCode)
	})
}
