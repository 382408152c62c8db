package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"hadydotai/bonding-curve-client/curve"
	"hadydotai/bonding-curve-client/trade"
)

type cliOptions struct {
	configPath   string
	mode         string
	supply       string
	decimals     int
	balance      string
	tokenBalance string
	slippage     float64
	tokens       string
	currency     string
	interactive  bool
	logLevel     string
}

func parseFlags(fs *flag.FlagSet, args []string) (cliOptions, error) {
	var opts cliOptions
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML settings file")
	fs.StringVar(&opts.mode, "mode", "buy", "Trade direction, buy or sell")
	fs.StringVar(&opts.supply, "supply", "0", "Current token supply, in whole tokens")
	fs.IntVar(&opts.decimals, "decimals", int(curve.DefaultDecimals), "Token decimals")
	fs.StringVar(&opts.balance, "balance", "", "Spendable currency balance, in whole AE")
	fs.StringVar(&opts.tokenBalance, "token-balance", "", "Held token balance, in whole tokens")
	fs.Float64Var(&opts.slippage, "slippage", -1, "Slippage tolerance in percent, defaults to the settings file")
	fs.StringVar(&opts.tokens, "tokens", "", "Quote this many tokens")
	fs.StringVar(&opts.currency, "currency", "", "Quote this much currency")
	fs.BoolVar(&opts.interactive, "interactive", false, "Open the interactive trade form")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level, one of debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	// amounts come first so a bad -mode is reported against the flag that needs it
	specs := []FlagSpec{
		{Name: "supply", Value: &opts.supply, Rules: []FlagRule{NotEmpty(), DecimalString()}},
		{Name: "decimals", Value: &opts.decimals, Rules: []FlagRule{InRange(0, 36)}},
		{Name: "balance", Value: &opts.balance, Rules: []FlagRule{DecimalString(), Requires("mode")}},
		{Name: "token-balance", Value: &opts.tokenBalance, Rules: []FlagRule{DecimalString(), Requires("mode")}},
		{Name: "tokens", Value: &opts.tokens, Rules: []FlagRule{DecimalString(), ExcludedBy("currency"), Requires("mode")}},
		{Name: "currency", Value: &opts.currency, Rules: []FlagRule{DecimalString(), Requires("mode")}},
		{Name: "mode", Value: &opts.mode, Rules: []FlagRule{NotEmpty(), OneOf("buy", "sell")}},
		{Name: "log-level", Value: &opts.logLevel, Rules: []FlagRule{OneOf("debug", "info", "warn", "error")}},
	}
	if opts.slippage >= 0 {
		specs = append(specs, FlagSpec{Name: "slippage", Value: &opts.slippage, Rules: []FlagRule{InRange(0, trade.MaxSlippage)}})
	}
	if err := ValidateConfig(fs, specs, fs.Output()); err != nil {
		return cliOptions{}, err
	}
	return opts, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// buildSession wires the curve, supply snapshot, quoted spot price and wallet
// balances into a fresh trade session.
func buildSession(opts cliOptions, settings Settings, logger *slog.Logger) (*trade.Session, error) {
	c, err := curve.New(settings.Curve)
	if err != nil {
		return nil, err
	}
	decimals := int32(opts.decimals)
	supplyAtomic, err := fmtForMath(opts.supply, decimals)
	if err != nil {
		return nil, fmt.Errorf("supply: %w", err)
	}
	supply := curve.Supply{Amount: supplyAtomic, Decimals: decimals}

	slippage := settings.Session.Slippage
	if opts.slippage >= 0 {
		slippage = opts.slippage
	}
	session := trade.NewSession(c, supply,
		trade.WithLogger(logger.With("component", "trade-session")),
		trade.WithSlippage(slippage),
	)
	session.SetBuying(strings.EqualFold(opts.mode, "buy"))

	// stand-in for the indexer quote: the curve's own marginal price at the snapshot
	spot, err := c.MarginalPrice(supply)
	if err != nil {
		logger.Warn("no spot price for supply", "supply", fmtForDisplay(supply.Amount, decimals, displayPrecision), "error", err)
		spot = decimal.Zero
	}
	session.SetMarket(trade.Market{SpotBuyPrice: spot, SpotSellPrice: spot})

	wallet, tokens := decimal.Zero, decimal.Zero
	if opts.balance != "" {
		wallet = decimal.RequireFromString(strings.TrimSpace(opts.balance))
	}
	if opts.tokenBalance != "" {
		tokens = decimal.RequireFromString(strings.TrimSpace(opts.tokenBalance))
	}
	session.SetWallet(wallet, tokens)

	switch {
	case opts.tokens != "":
		err = session.SetTokenAmount(opts.tokens)
	case opts.currency != "":
		err = session.SetCurrencyAmount(opts.currency)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bonding-curve-client", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts, err := parseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := newLogger(stderr, opts.logLevel)
	settings, err := loadSettings(opts.configPath)
	if err != nil {
		logger.Error("failed to load settings", "path", opts.configPath, "error", err)
		return 1
	}
	session, err := buildSession(opts, settings, logger)
	if err != nil {
		logger.Error("failed to build trade session", "error", err)
		return 1
	}
	builder := NewTableBuilder(session, settings)
	if !session.TokenFieldIsDriver() {
		builder.SetFocus(trade.FieldCurrency)
	}

	if !opts.interactive {
		fmt.Fprint(stdout, builder.Build())
		if intent, err := NewOrderIntent(session, settings); err == nil {
			fmt.Fprintln(stdout, intent.Summary())
		} else if !errors.Is(err, ErrIncompleteOrder) {
			logger.Warn("quote cannot be submitted", "error", err)
		}
		return 0
	}

	decision, err := newTermUI(session, builder, logger.With("component", "tui")).Run()
	if err != nil {
		logger.Error("trade form failed", "error", err)
		return 1
	}
	if decision != decisionProceed {
		logger.Info("trade abandoned")
		return 0
	}
	intent, err := NewOrderIntent(session, settings)
	if err != nil {
		logger.Error("failed to settle order", "error", err)
		return 1
	}
	fmt.Fprint(stdout, builder.Build())
	fmt.Fprintln(stdout, intent.Summary())
	logger.Info("order ready",
		"verb", intent.Verb,
		"kind", intent.Kind.String(),
		"token_amount", intent.TokenAmount.String(),
		"currency_amount", intent.CurrencyAmount.String(),
		"required_input", intent.RequiredInputAmount().String(),
		"slippage", intent.Slippage,
	)
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
