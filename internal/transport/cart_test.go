package transport

import (
	"fmt"
	"net/http"
	"testing"

	"liwamenu-be/internal/cart"
	"liwamenu-be/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_Get(t *testing.T) {
	f := newFixture(t)
	d := f.login(t, nil)

	f.cart.On("Summary", mock.Anything, d.claims.SessionID).
		Return(cart.Summary{SessionID: d.claims.SessionID, ItemCount: 2, Subtotal: dec("40")}, nil).Once()

	w := f.do(http.MethodGet, "/cart", "", d)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["itemCount"])
	assert.Equal(t, d.claims.SessionID, body["sessionId"])
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		d := f.login(t, nil)

		match := mock.MatchedBy(func(p cart.AddItemParams) bool {
			return p.SessionID == d.claims.SessionID &&
				p.ProductID == "burger" && p.PortionID == "regular" &&
				p.Quantity == 2 &&
				len(p.Tags) == 1 && p.Tags[0] == catalog.TagPick{TagID: "sauce", ItemID: "bbq", Quantity: 1}
		})
		f.cart.On("AddItem", mock.Anything, match).Return(&cart.Line{ID: "line-1", Quantity: 2}, nil).Once()
		f.cart.On("Summary", mock.Anything, d.claims.SessionID).
			Return(cart.Summary{SessionID: d.claims.SessionID, ItemCount: 2}, nil).Once()

		w := f.do(http.MethodPost, "/cart/items",
			`{"productId":"burger","portionId":"regular","quantity":2,"tags":[{"tagId":"sauce","itemId":"bbq","quantity":1}]}`, d)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "line-1", body["line"].(map[string]any)["id"])
		assert.Equal(t, float64(2), body["cart"].(map[string]any)["itemCount"])
	})

	t.Run("Quantity defaults to one", func(t *testing.T) {
		f := newFixture(t)
		d := f.login(t, nil)

		f.cart.On("AddItem", mock.Anything, mock.MatchedBy(func(p cart.AddItemParams) bool {
			return p.Quantity == 1
		})).Return(&cart.Line{ID: "line-1", Quantity: 1}, nil).Once()
		f.cart.On("Summary", mock.Anything, d.claims.SessionID).Return(cart.Summary{}, nil).Once()

		w := f.do(http.MethodPost, "/cart/items", `{"productId":"tea","portionId":"cup"}`, d)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"Unknown product", cart.ErrProductNotFound, http.StatusNotFound},
			{"Bad selection", fmt.Errorf("%w: %w", cart.ErrInvalidSelection, catalog.ErrMaxSelectionExceeded), http.StatusBadRequest},
			{"Bad quantity", cart.ErrInvalidQuantity, http.StatusBadRequest},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				d := f.login(t, nil)
				f.cart.On("AddItem", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

				w := f.do(http.MethodPost, "/cart/items", `{"productId":"burger","portionId":"regular","quantity":-1}`, d)
				assert.Equal(t, tt.want, w.Code)
				assert.Contains(t, decodeBody(t, w)["error"], tt.err.Error())
			})
		}
	})

	t.Run("Unknown field", func(t *testing.T) {
		f := newFixture(t)
		d := f.login(t, nil)

		w := f.do(http.MethodPost, "/cart/items", `{"productId":"burger","price":1}`, d)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandler_UpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	d := f.login(t, nil)
	sid := d.claims.SessionID

	t.Run("Zero quantity", func(t *testing.T) {
		f.cart.On("UpdateQuantity", mock.Anything, sid, "line-1", 0).Return(nil).Once()
		f.cart.On("Summary", mock.Anything, sid).Return(cart.Summary{SessionID: sid}, nil).Once()

		w := f.do(http.MethodPatch, "/cart/items/line-1", `{"quantity":0}`, d)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing quantity", func(t *testing.T) {
		w := f.do(http.MethodPatch, "/cart/items/line-1", `{}`, d)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown line", func(t *testing.T) {
		f.cart.On("UpdateQuantity", mock.Anything, sid, "nope", 3).Return(cart.ErrCartItemNotFound).Once()

		w := f.do(http.MethodPatch, "/cart/items/nope", `{"quantity":3}`, d)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Remove", func(t *testing.T) {
		f.cart.On("RemoveItem", mock.Anything, sid, "line-1").Return(nil).Once()
		f.cart.On("Summary", mock.Anything, sid).Return(cart.Summary{SessionID: sid}, nil).Once()

		w := f.do(http.MethodDelete, "/cart/items/line-1", "", d)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Clear", func(t *testing.T) {
		f.cart.On("Clear", mock.Anything, sid).Return(nil).Once()

		w := f.do(http.MethodDelete, "/cart", "", d)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
