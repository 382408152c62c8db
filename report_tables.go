package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"hadydotai/bonding-curve-client/trade"
)

const displayPrecision int32 = 8

// TableBuilder renders the state of one trade session as a quote table.
type TableBuilder struct {
	session        *trade.Session
	tokenSymbol    string
	currencySymbol string
	feeRate        float64
	// focus marks the field the form is editing, which may differ from the driver
	focus trade.Field
}

func NewTableBuilder(session *trade.Session, settings Settings) *TableBuilder {
	return &TableBuilder{
		session:        session,
		tokenSymbol:    settings.Session.TokenSymbol,
		currencySymbol: settings.Session.CurrencySymbol,
		feeRate:        settings.Curve.Fees.BuySurcharge,
		focus:          trade.FieldToken,
	}
}

func (tb *TableBuilder) SetFocus(field trade.Field) {
	tb.focus = field
}

func (tb *TableBuilder) Build() string {
	q := tb.session.Snapshot()

	builder := &strings.Builder{}
	t := table.NewWriter()
	t.SetOutputMirror(builder)
	t.SetTitle(fmt.Sprintf("%s / %s", tb.tokenSymbol, tb.currencySymbol))
	t.SetCaption("Bonding curve quote")
	t.Style().Size.WidthMax = 120
	t.AppendHeader(table.Row{"", "Value"})

	mode := "sell"
	if q.IsBuying {
		mode = "buy"
	}
	t.AppendRow(table.Row{"Mode", mode})
	t.AppendRow(table.Row{"Supply", fmt.Sprintf("%s %s", shortenAmount(q.Supply), tb.tokenSymbol)})
	t.AppendRow(table.Row{"Spot price", tb.price(q.SpotPrice)})
	t.AppendSeparator()

	t.AppendRow(table.Row{tb.fieldLabel(trade.FieldToken, q), tb.amount(q.TokenAmount, tb.tokenSymbol)})
	t.AppendRow(table.Row{tb.fieldLabel(trade.FieldCurrency, q), tb.amount(q.CurrencyAmount, tb.currencySymbol)})
	t.AppendSeparator()

	t.AppendRow(table.Row{"Average price", tb.price(q.AveragePrice)})
	t.AppendRow(table.Row{"Next price", tb.price(q.NextMarginalPrice)})
	t.AppendRow(table.Row{"Price impact", formatDecimalPercent(q.PriceImpactPercent)})
	t.AppendRow(table.Row{"Slippage", formatPercent(q.Slippage)})
	t.AppendRow(table.Row{tb.boundLabel(q), tb.bound(q)})
	if q.IsBuying {
		t.AppendRow(table.Row{"Protocol fee", formatFeeRate(tb.feeRate)})
		t.AppendRow(table.Row{"Protocol reward", prettifyAmount(q.ProtocolReward, 2)})
	}
	t.AppendSeparator()

	status := "ok"
	if q.Insufficient {
		status = "insufficient balance"
	}
	t.AppendRow(table.Row{"Balance", status}, table.RowConfig{AutoMerge: true, AutoMergeAlign: text.AlignLeft})
	t.Render()
	return builder.String()
}

func (tb *TableBuilder) fieldLabel(field trade.Field, q trade.Quote) string {
	label := "Tokens"
	if field == trade.FieldCurrency {
		label = "Currency"
	}
	driver := (field == trade.FieldToken) == q.TokenFieldIsDriver
	if driver {
		label += " *"
	}
	if field == tb.focus {
		label = "> " + label
	}
	return label
}

func (tb *TableBuilder) amount(v decimal.NullDecimal, symbol string) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%s %s", prettifyAmount(v.Decimal, displayPrecision), symbol)
}

func (tb *TableBuilder) price(p decimal.Decimal) string {
	return fmt.Sprintf("%s %s/%s", shortenAmount(p), tb.currencySymbol, tb.tokenSymbol)
}

func (tb *TableBuilder) boundLabel(q trade.Quote) string {
	if q.IsBuying {
		return "Max spent"
	}
	return "Min received"
}

func (tb *TableBuilder) bound(q trade.Quote) string {
	if q.SlippageErr != nil {
		return q.SlippageErr.Error()
	}
	if !q.SlippageBound.Valid {
		return "-"
	}
	return prettifyAmount(q.SlippageBound.Decimal, displayPrecision) + " " + tb.currencySymbol
}
