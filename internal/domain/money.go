package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Documents store amounts as plain doubles (the wire format the original data
// set uses), but all arithmetic goes through decimals so that summing many
// lines cannot drift.

// LineTotal returns snapshot price times quantity for one cart line.
func LineTotal(line CartLine) decimal.Decimal {
	return decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// CartTotal returns the sum of all line totals.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

// PaymentsBySeller aggregates line totals per distinct seller email and
// returns one Payment per seller, ordered by seller email so that ledger
// writes are deterministic.
func PaymentsBySeller(buyerEmail string, lines []CartLine) []Payment {
	sums := make(map[string]decimal.Decimal)
	for _, line := range lines {
		sums[line.SellerEmail] = sums[line.SellerEmail].Add(LineTotal(line))
	}

	sellers := make([]string, 0, len(sums))
	for seller := range sums {
		sellers = append(sellers, seller)
	}
	sort.Strings(sellers)

	payments := make([]Payment, 0, len(sellers))
	for _, seller := range sellers {
		payments = append(payments, Payment{
			BuyerEmail:  buyerEmail,
			SellerEmail: seller,
			Amount:      sums[seller].InexactFloat64(),
		})
	}
	return payments
}

// OrdersFromCart builds one Order per cart line.
func OrdersFromCart(buyerEmail string, lines []CartLine) []Order {
	orders := make([]Order, 0, len(lines))
	for _, line := range lines {
		orders = append(orders, Order{
			BuyerEmail:  buyerEmail,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			TotalPrice:  LineTotal(line).InexactFloat64(),
		})
	}
	return orders
}
