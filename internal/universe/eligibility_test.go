package universe

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
)

// fakeProvider serves session data from a map; missing codes error
type fakeProvider struct {
	sessions map[string]*contracts.SessionData
	closes   map[string][]float64
}

func (f *fakeProvider) SessionData(ctx context.Context, code string) (*contracts.SessionData, error) {
	data, ok := f.sessions[code]
	if !ok {
		return nil, fmt.Errorf("%w: no session for %s", contracts.ErrDataUnavailable, code)
	}
	return data, nil
}

func (f *fakeProvider) DailyCloses(ctx context.Context, code string, count int) ([]float64, error) {
	return f.closes[code], nil
}

func candidates(codes ...string) []contracts.Candidate {
	out := make([]contracts.Candidate, 0, len(codes))
	for _, code := range codes {
		out = append(out, contracts.Candidate{Code: code})
	}
	return out
}

func TestEligibility_AllPredicates(t *testing.T) {
	provider := &fakeProvider{sessions: map[string]*contracts.SessionData{
		"A.XSHG": {Code: "A.XSHG", Name: "正常一"},
		"B.XSHG": {Code: "B.XSHG", Name: "停牌股", Paused: true},
		"C.XSHG": {Code: "C.XSHG", Name: "退市长油"},
		"D.XSHG": {Code: "D.XSHG", Name: "ST某某", SpecialTreatment: true},
		"E.XSHG": {Code: "E.XSHG", Name: "正常二"},
	}}
	filter := NewEligibility(provider, logger.NewNop())

	passed, excluded, err := filter.Filter(context.Background(),
		candidates("A.XSHG", "B.XSHG", "C.XSHG", "D.XSHG", "E.XSHG"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A.XSHG", "E.XSHG"}, passed)
	assert.Equal(t, ReasonPaused, excluded["B.XSHG"])
	assert.Equal(t, ReasonDelisted, excluded["C.XSHG"])
	assert.Equal(t, ReasonST, excluded["D.XSHG"])
}

func TestEligibility_PreservesOrder(t *testing.T) {
	provider := &fakeProvider{sessions: map[string]*contracts.SessionData{
		"C.XSHG": {Code: "C.XSHG", Name: "丙"},
		"A.XSHG": {Code: "A.XSHG", Name: "甲"},
		"B.XSHG": {Code: "B.XSHG", Name: "乙"},
	}}
	filter := NewEligibility(provider, logger.NewNop())

	// Screener order (P/B ascending) must survive untouched
	passed, _, err := filter.Filter(context.Background(), candidates("C.XSHG", "A.XSHG", "B.XSHG"))
	require.NoError(t, err)
	assert.Equal(t, []string{"C.XSHG", "A.XSHG", "B.XSHG"}, passed)
}

func TestEligibility_MissingSessionFailsClosed(t *testing.T) {
	provider := &fakeProvider{sessions: map[string]*contracts.SessionData{
		"A.XSHG": {Code: "A.XSHG", Name: "甲"},
	}}
	filter := NewEligibility(provider, logger.NewNop())

	passed, excluded, err := filter.Filter(context.Background(), candidates("A.XSHG", "GHOST.XSHG"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.XSHG"}, passed)
	assert.Equal(t, ReasonNoData, excluded["GHOST.XSHG"])
}

func TestEligibility_EmptyInput(t *testing.T) {
	filter := NewEligibility(&fakeProvider{}, logger.NewNop())

	passed, excluded, err := filter.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, passed)
	assert.Empty(t, excluded)
}
