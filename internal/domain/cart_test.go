package domain_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCart_AddItem(t *testing.T) {
	productA := product("A", "10.00")

	tests := []struct {
		name      string
		setup     map[string]int
		productID string
		quantity  int
		wantQty   int
		wantTotal string
	}{
		{
			name:      "new line with positive quantity: inserted",
			productID: "A",
			quantity:  3,
			wantQty:   3,
			wantTotal: "30",
		},
		{
			name:      "new line with zero quantity: ignored",
			productID: "A",
			quantity:  0,
			wantQty:   0,
			wantTotal: "0",
		},
		{
			name:      "new line with negative quantity: ignored",
			productID: "A",
			quantity:  -2,
			wantQty:   0,
			wantTotal: "0",
		},
		{
			name:      "existing line: quantity increased",
			setup:     map[string]int{"A": 2},
			productID: "A",
			quantity:  3,
			wantQty:   5,
			wantTotal: "50",
		},
		{
			name:      "existing line decremented: quantity reduced",
			setup:     map[string]int{"A": 5},
			productID: "A",
			quantity:  -2,
			wantQty:   3,
			wantTotal: "30",
		},
		{
			name:      "existing line decremented to zero: removed",
			setup:     map[string]int{"A": 2},
			productID: "A",
			quantity:  -2,
			wantQty:   0,
			wantTotal: "0",
		},
		{
			name:      "existing line decremented below zero: removed",
			setup:     map[string]int{"A": 2},
			productID: "A",
			quantity:  -7,
			wantQty:   0,
			wantTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.NewCart(currency.USD)
			for id, qty := range tt.setup {
				require.NoError(t, cart.AddItem(product(id, "10.00"), qty))
			}

			err := cart.AddItem(productA, tt.quantity)
			require.NoError(t, err)

			assert.Equal(t, tt.wantQty, cart.Quantity("A"))
			_, exists := cart.Line("A")
			assert.Equal(t, tt.wantQty > 0, exists)
			assertAmount(t, tt.wantTotal, cart.Total())
		})
	}
}

func TestCart_AddItem_CurrencyMismatch(t *testing.T) {
	cart := domain.NewCart(currency.USD)

	p := product("A", "10.00")
	p.Price.Currency = currency.EUR

	err := cart.AddItem(p, 1)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, cart.IsEmpty())
}

func TestCart_AddItem_KeepsQuotedPriceOfExistingLine(t *testing.T) {
	cart := domain.NewCart(currency.USD)
	require.NoError(t, cart.AddItem(product("A", "10.00"), 1))

	require.NoError(t, cart.AddItem(product("A", "99.00"), 1))

	line, ok := cart.Line("A")
	require.True(t, ok)
	assertAmount(t, "10", line.QuotedPrice)
	assertAmount(t, "20", cart.Total())
}

func TestCart_AddItem_CancellationRestoresState(t *testing.T) {
	cart := domain.NewCart(currency.USD)
	require.NoError(t, cart.AddItem(product("A", "10.00"), 4))
	require.NoError(t, cart.AddItem(product("B", "2.50"), 1))

	before := cart.Lines()
	beforeTotal := cart.Total()

	for _, q := range []int{1, 3, 4} {
		require.NoError(t, cart.AddItem(product("A", "10.00"), q))
		require.NoError(t, cart.AddItem(product("A", "10.00"), -q))

		assert.Empty(t, cmp.Diff(before, cart.Lines(), moneyComparer()))
		assert.True(t, beforeTotal.Equal(cart.Total()))
	}

	// a line that did not exist is removed again
	require.NoError(t, cart.AddItem(product("C", "1.00"), 2))
	require.NoError(t, cart.AddItem(product("C", "1.00"), -2))
	assert.Empty(t, cmp.Diff(before, cart.Lines(), moneyComparer()))
}

func TestCart_SetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		quantity  int
		wantQty   int
		wantLen   int
		wantTotal string
	}{
		{
			name:      "existing line: quantity replaced",
			productID: "A",
			quantity:  7,
			wantQty:   7,
			wantLen:   2,
			wantTotal: "95",
		},
		{
			name:      "existing line set to zero: removed",
			productID: "A",
			quantity:  0,
			wantQty:   0,
			wantLen:   1,
			wantTotal: "25",
		},
		{
			name:      "existing line set negative: removed",
			productID: "A",
			quantity:  -1,
			wantQty:   0,
			wantLen:   1,
			wantTotal: "25",
		},
		{
			name:      "absent line: no-op",
			productID: "Z",
			quantity:  3,
			wantQty:   0,
			wantLen:   2,
			wantTotal: "55",
		},
		{
			name:      "absent line set to zero: no-op",
			productID: "Z",
			quantity:  0,
			wantQty:   0,
			wantLen:   2,
			wantTotal: "55",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := scenarioCart(t)

			cart.SetQuantity(tt.productID, tt.quantity)

			assert.Equal(t, tt.wantQty, cart.Quantity(tt.productID))
			assert.Equal(t, tt.wantLen, cart.Len())
			assertAmount(t, tt.wantTotal, cart.Total())
		})
	}
}

func TestCart_RemoveItem(t *testing.T) {
	cart := scenarioCart(t)

	cart.RemoveItem("B")
	assert.Equal(t, 1, cart.Len())
	assertAmount(t, "30", cart.Total())

	// absent: no-op
	cart.RemoveItem("B")
	assert.Equal(t, 1, cart.Len())
	assertAmount(t, "30", cart.Total())
}

func TestCart_Clear(t *testing.T) {
	cart := scenarioCart(t)

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Empty(t, cart.Lines())
	assertAmount(t, "0", cart.Total())
	assert.Equal(t, currency.USD, cart.Total().Currency)
}

func TestCart_LinesKeepInsertionOrder(t *testing.T) {
	cart := domain.NewCart(currency.USD)
	for _, id := range []string{"C", "A", "B"} {
		require.NoError(t, cart.AddItem(product(id, "1.00"), 1))
	}
	cart.SetQuantity("A", 5)

	var ids []string
	for _, line := range cart.Lines() {
		ids = append(ids, line.ProductID)
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids)
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	cart := scenarioCart(t)

	lines := cart.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 3, cart.Quantity("A"))
}

// Random operation sequences must always leave a cart whose total equals the
// sum over its lines and whose lines are unique with positive quantities.
func TestCart_TotalMatchesLinesForRandomSequences(t *testing.T) {
	faker := gofakeit.New(42)
	ids := []string{"A", "B", "C", "D"}
	prices := map[string]string{"A": "10.00", "B": "25.00", "C": "0.99", "D": "3.333"}

	for run := 0; run < 50; run++ {
		cart := domain.NewCart(currency.USD)

		for step := 0; step < 40; step++ {
			id := ids[faker.IntN(len(ids))]
			switch faker.IntN(3) {
			case 0:
				require.NoError(t, cart.AddItem(product(id, prices[id]), faker.IntRange(-5, 5)))
			case 1:
				cart.SetQuantity(id, faker.IntRange(-2, 6))
			case 2:
				cart.RemoveItem(id)
			}

			assertCartConsistent(t, cart)
		}
	}
}

func scenarioCart(t *testing.T) *domain.Cart {
	t.Helper()

	cart := domain.NewCart(currency.USD)
	require.NoError(t, cart.AddItem(product("A", "10.00"), 3))
	require.NoError(t, cart.AddItem(product("B", "25.00"), 1))

	return cart
}

func product(id, price string) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  "product " + id,
		Price: domain.NewMoney(decimal.RequireFromString(price), currency.USD),
		Stock: 10,
	}
}

func assertCartConsistent(t *testing.T, cart *domain.Cart) {
	t.Helper()

	want := decimal.Zero
	seen := make(map[string]bool)
	for _, line := range cart.Lines() {
		require.Positive(t, line.Quantity)
		require.False(t, seen[line.ProductID], "duplicate line %s", line.ProductID)
		seen[line.ProductID] = true

		want = want.Add(line.QuotedPrice.Amount.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	require.True(t, want.Equal(cart.Total().Amount), "total %s, want %s", cart.Total(), want)
}

func assertAmount(t *testing.T, want string, got domain.Money) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got.Amount), "amount %s, want %s", got.Amount, want)
}

func moneyComparer() cmp.Option {
	return cmp.Comparer(func(x, y domain.Money) bool {
		return x.Equal(y)
	})
}
