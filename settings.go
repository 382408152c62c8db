package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"hadydotai/bonding-curve-client/curve"
	"hadydotai/bonding-curve-client/trade"
)

// Settings is the optional TOML file layered under the command line flags.
//
//	[curve]
//	a = 0.001
//	k = 0.00000001
//	c = 0.0009999
//	subintervals = 100
//
//	[curve.solver]
//	tolerance = 0.001
//	max_iterations = 1000
//	upper_bound = 1e12
//
//	[curve.fees]
//	buy_surcharge = 0.005
//	reward_ratio = 1000
//	affiliation_fee = 0.05
//
//	[session]
//	slippage = 1.0
//	token_symbol = "TKN"
//	currency_symbol = "AE"
type Settings struct {
	Curve   curve.Settings  `toml:"curve"`
	Session SessionSettings `toml:"session"`
}

type SessionSettings struct {
	Slippage       float64 `toml:"slippage"`
	TokenSymbol    string  `toml:"token_symbol"`
	CurrencySymbol string  `toml:"currency_symbol"`
}

func defaultSettings() Settings {
	return Settings{
		Curve: curve.DefaultSettings(),
		Session: SessionSettings{
			Slippage:       trade.DefaultSlippage,
			TokenSymbol:    "TKN",
			CurrencySymbol: "AE",
		},
	}
}

// loadSettings starts from the defaults and overlays path when one is given.
// Keys the file sets but nothing reads are reported, they are usually typos.
func loadSettings(path string) (Settings, error) {
	settings := defaultSettings()
	if strings.TrimSpace(path) == "" {
		return settings, nil
	}
	meta, err := toml.DecodeFile(path, &settings)
	if err != nil {
		return Settings{}, fmt.Errorf("decoding settings file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Settings{}, fmt.Errorf("settings file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := settings.validate(); err != nil {
		return Settings{}, fmt.Errorf("settings file %s: %w", path, err)
	}
	return settings, nil
}

func (s Settings) validate() error {
	if err := s.Curve.Validate(); err != nil {
		return err
	}
	if s.Session.Slippage < 0 || s.Session.Slippage > trade.MaxSlippage {
		return fmt.Errorf("session slippage must be within [0, %v], got %v", trade.MaxSlippage, s.Session.Slippage)
	}
	if strings.TrimSpace(s.Session.TokenSymbol) == "" || strings.TrimSpace(s.Session.CurrencySymbol) == "" {
		return errors.New("session symbols must not be empty")
	}
	return nil
}
