package chart

import (
	"encoding/json"
	"sort"

	"github.com/newthinker/btview/internal/core"
)

// Unresolved marks a trade date with no matching candle
const Unresolved = -1

// DateSet is a set of trading dates
type DateSet map[string]struct{}

// Add inserts date into the set
func (s DateSet) Add(date string) {
	s[date] = struct{}{}
}

// Has reports whether date is in the set
func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

// Sorted returns the dates in ascending order
func (s DateSet) Sorted() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// MarshalJSON encodes the set as a sorted array
func (s DateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a set from an array of dates
func (s *DateSet) UnmarshalJSON(data []byte) error {
	var dates []string
	if err := json.Unmarshal(data, &dates); err != nil {
		return err
	}
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	*s = set
	return nil
}

// AlignedTrade is a trade with the candle positions of its entry and exit
type AlignedTrade struct {
	Trade      core.Trade `json:"trade"`
	EntryIndex int        `json:"entry_index"`
	ExitIndex  int        `json:"exit_index"`
}

// Resolved reports whether both dates were found in the candle series
func (a AlignedTrade) Resolved() bool {
	return a.EntryIndex != Unresolved && a.ExitIndex != Unresolved
}

// Alignment maps trades onto a candle series
type Alignment struct {
	PerTrade   []AlignedTrade `json:"per_trade"`
	BuyMarked  DateSet        `json:"buy_marked"`
	SellMarked DateSet        `json:"sell_marked"`
}

// Overlay returns the trades that can be drawn on the price chart
func (a Alignment) Overlay() []AlignedTrade {
	var result []AlignedTrade
	for _, t := range a.PerTrade {
		if t.Resolved() {
			result = append(result, t)
		}
	}
	return result
}

// UnresolvedCount returns the number of trades kept out of the overlay
func (a Alignment) UnresolvedCount() int {
	n := 0
	for _, t := range a.PerTrade {
		if !t.Resolved() {
			n++
		}
	}
	return n
}

// Align locates each trade's entry and exit date in candles.
//
// Every trade stays in PerTrade in input order. Only fully resolved trades
// contribute to the marker sets: a trade whose entry is found but whose exit
// is not marks neither date, so BuyMarked holds the entry dates of resolved
// trades only. A date is marked at most once no matter how many trades share it.
func Align(trades []core.Trade, candles []core.Candle) Alignment {
	index := make(map[string]int, len(candles))
	for i, c := range candles {
		// dates are unique; keep the first on bad input
		if _, ok := index[c.Date]; !ok {
			index[c.Date] = i
		}
	}

	lookup := func(date string) int {
		if i, ok := index[date]; ok {
			return i
		}
		return Unresolved
	}

	result := Alignment{
		PerTrade:   make([]AlignedTrade, len(trades)),
		BuyMarked:  make(DateSet),
		SellMarked: make(DateSet),
	}

	for i, t := range trades {
		at := AlignedTrade{
			Trade:      t,
			EntryIndex: lookup(t.EntryDate),
			ExitIndex:  lookup(t.ExitDate),
		}
		result.PerTrade[i] = at

		if at.Resolved() {
			result.BuyMarked.Add(t.EntryDate)
			result.SellMarked.Add(t.ExitDate)
		}
	}

	return result
}
