package contracts

import "time"

// Universe is the ordered set of tradeable instrument codes for one
// trading day. Replaced wholesale each pre-open, read-only afterwards.
// SSOT: 每个交易日只生成一次
type Universe struct {
	Date     time.Time         `json:"date"`
	Codes    []string          `json:"codes"`
	Excluded map[string]string `json:"excluded"` // 剔除原因: code -> reason
}

// NewUniverse creates an empty universe for a trading day
func NewUniverse(date time.Time) *Universe {
	return &Universe{
		Date:     date,
		Codes:    make([]string, 0),
		Excluded: make(map[string]string),
	}
}

// Contains checks if a code is in the universe
func (u *Universe) Contains(code string) bool {
	for _, c := range u.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Count returns the number of tradeable instruments
func (u *Universe) Count() int {
	return len(u.Codes)
}

// IsEmpty reports whether the screen produced no candidates
func (u *Universe) IsEmpty() bool {
	return len(u.Codes) == 0
}

// Focus returns the top-ranked instrument, or fallback when the
// universe is empty. The screen orders ascending by P/B, so Codes[0]
// is the cheapest relative to book.
func (u *Universe) Focus(fallback string) string {
	if len(u.Codes) == 0 {
		return fallback
	}
	return u.Codes[0]
}

// IsExcluded checks if a code was excluded, with reason
func (u *Universe) IsExcluded(code string) (bool, string) {
	reason, exists := u.Excluded[code]
	return exists, reason
}
