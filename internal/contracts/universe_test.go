package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUniverse_Focus(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		codes    []string
		fallback string
		want     string
	}{
		{
			name:     "top ranked wins",
			codes:    []string{"600028.XSHG", "601398.XSHG"},
			fallback: "600519.XSHG",
			want:     "600028.XSHG",
		},
		{
			name:     "empty universe falls back",
			codes:    []string{},
			fallback: "600519.XSHG",
			want:     "600519.XSHG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUniverse(day)
			u.Codes = append(u.Codes, tt.codes...)
			assert.Equal(t, tt.want, u.Focus(tt.fallback))
		})
	}
}

func TestUniverse_Contains(t *testing.T) {
	u := NewUniverse(time.Now())
	u.Codes = []string{"600028.XSHG", "601398.XSHG"}
	u.Excluded["000099.XSHE"] = "停牌"

	assert.True(t, u.Contains("600028.XSHG"))
	assert.False(t, u.Contains("000099.XSHE"))
	assert.Equal(t, 2, u.Count())
	assert.False(t, u.IsEmpty())

	excluded, reason := u.IsExcluded("000099.XSHE")
	assert.True(t, excluded)
	assert.Equal(t, "停牌", reason)
}

func TestSessionData_Tradeable(t *testing.T) {
	tests := []struct {
		name string
		data SessionData
		want bool
	}{
		{"normal", SessionData{Code: "600028.XSHG", Name: "中国石化"}, true},
		{"paused", SessionData{Name: "中国石化", Paused: true}, false},
		{"special treatment", SessionData{Name: "ST某某", SpecialTreatment: true}, false},
		{"delisting marker", SessionData{Name: "退市长油"}, false},
		{"marker mid-name", SessionData{Name: "长油退"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.data.Tradeable())
		})
	}
}

func TestRebalanceReport_Counts(t *testing.T) {
	report := &RebalanceReport{
		Orders: []OrderIntent{
			{Code: "600028.XSHG", TargetValue: 300},
			{Code: "601398.XSHG", TargetValue: 300},
			{Code: "000651.XSHE", TargetValue: 0},
		},
	}

	assert.Equal(t, 2, report.BuyCount())
	assert.Equal(t, 1, report.SellCount())
}
