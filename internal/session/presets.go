package session

import "fmt"

// Preset constructors return sealed sessions with the standard exchange
// hours. AddSlice cannot fail on these fixed values.

// NewStockSession: A-share equities, 09:30~11:30 and 13:00~15:00.
func NewStockSession() *Session {
	s := New()
	mustAdd(s, 9, 30, 11, 30)
	mustAdd(s, 13, 0, 15, 0)
	s.Seal()
	return s
}

// NewStockIndexSession: index futures trade the equity hours nowadays.
func NewStockIndexSession() *Session {
	return NewStockSession()
}

// NewBondSession: treasury futures, 15 minutes longer than equities.
func NewBondSession() *Session {
	s := New()
	mustAdd(s, 9, 30, 11, 30)
	mustAdd(s, 13, 0, 15, 15)
	s.Seal()
	return s
}

// NewCommoditySession: commodity futures without a night leg.
func NewCommoditySession() *Session {
	s := New()
	mustAdd(s, 9, 0, 10, 15)
	mustAdd(s, 10, 30, 11, 30)
	mustAdd(s, 13, 30, 15, 0)
	s.Seal()
	return s
}

// NewCommodityNightSession: commodity futures with the 21:00~02:30
// night leg.
func NewCommodityNightSession() *Session {
	s := New()
	mustAdd(s, 21, 0, 2, 30)
	mustAdd(s, 9, 0, 10, 15)
	mustAdd(s, 10, 30, 11, 30)
	mustAdd(s, 13, 30, 15, 0)
	s.Seal()
	return s
}

// NewFullSession covers commodities, index and treasury futures and
// equities in one envelope, night leg included.
func NewFullSession() *Session {
	s := New()
	mustAdd(s, 21, 0, 2, 30)
	mustAdd(s, 9, 0, 11, 30)
	mustAdd(s, 13, 0, 15, 15)
	s.Seal()
	return s
}

// PresetByName resolves a preset identifier as used in config files.
func PresetByName(name string) (*Session, error) {
	switch name {
	case "stock":
		return NewStockSession(), nil
	case "stock_index":
		return NewStockIndexSession(), nil
	case "bond":
		return NewBondSession(), nil
	case "commodity":
		return NewCommoditySession(), nil
	case "commodity_night":
		return NewCommodityNightSession(), nil
	case "full":
		return NewFullSession(), nil
	default:
		return nil, fmt.Errorf("unknown session preset: %q", name)
	}
}

func mustAdd(s *Session, sh, sm, eh, em int) {
	if err := s.AddSlice(sh, sm, eh, em); err != nil {
		panic(err)
	}
}
