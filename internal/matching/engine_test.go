package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaadbayit/reconciler/internal/domain"
)

func candidates(names ...string) []Candidate {
	out := make([]Candidate, len(names))
	for i, name := range names {
		out[i] = Candidate{ID: name, Name: name}
	}
	return out
}

func amount(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestMatchExact(t *testing.T) {
	e := NewEngine(Config{})
	d := e.Match("ישראל ישראלי", candidates("ישראל ישראלי", "כהן דוד"), nil, nil)

	assert.Equal(t, "ישראל ישראלי", d.TenantID)
	assert.Equal(t, 1.0, d.Confidence)
	assert.Equal(t, domain.MethodExact, d.Method)
}

func TestMatchExactAfterNormalization(t *testing.T) {
	e := NewEngine(Config{})
	// Final-letter spelling and extra whitespace on the payer side.
	d := e.Match("כהן  דויד", []Candidate{{ID: "t1", Name: "כהנ דויד"}}, nil, nil)

	assert.Equal(t, "t1", d.TenantID)
	assert.Equal(t, domain.MethodExact, d.Method)
}

func TestMatchExactAgainstFullName(t *testing.T) {
	e := NewEngine(Config{})
	roster := []Candidate{{ID: "t1", Name: "דוד", FullName: "כהן דוד"}}
	d := e.Match("כהן דוד", roster, nil, nil)

	assert.Equal(t, "t1", d.TenantID)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestMatchReversedName(t *testing.T) {
	e := NewEngine(Config{})
	d := e.Match("ישראלי ישראל", candidates("ישראל ישראלי"), nil, nil)

	assert.Equal(t, "ישראל ישראלי", d.TenantID)
	assert.Equal(t, 0.95, d.Confidence)
	assert.Equal(t, domain.MethodReversedName, d.Method)
}

func TestMatchEmptyInputs(t *testing.T) {
	e := NewEngine(Config{})

	for name, d := range map[string]Decision{
		"empty payer":  e.Match("", candidates("ישראל ישראלי"), nil, nil),
		"empty roster": e.Match("ישראל ישראלי", nil, nil, nil),
	} {
		assert.Empty(t, d.TenantID, name)
		assert.Zero(t, d.Confidence, name)
		assert.Equal(t, domain.MethodNone, d.Method, name)
	}
}

func TestMatchBelowThresholdKeepsScore(t *testing.T) {
	e := NewEngine(Config{})
	d := e.Match("אבגדה וזחטי", candidates("קלמנס עפרת"), nil, nil)

	assert.Empty(t, d.TenantID)
	assert.Less(t, d.Confidence, DefaultThreshold)
	assert.Greater(t, d.Confidence, 0.0)
}

func TestMatchFirstTieWins(t *testing.T) {
	e := NewEngine(Config{})
	roster := []Candidate{
		{ID: "first", Name: "כהן דוד"},
		{ID: "second", Name: "כהן דוד"},
	}
	d := e.Match("כהן דוד", roster, nil, nil)
	assert.Equal(t, "first", d.TenantID)
}

func TestMatchAmountBoost(t *testing.T) {
	e := NewEngine(Config{})
	roster := candidates("ישראל ישראלי")

	base := e.Match("ישראל ישר", roster, nil, nil)
	require.Less(t, base.Confidence, 1.0)

	boosted := e.Match("ישראל ישר", roster, amount(t, "300"), amount(t, "300.50"))
	assert.InDelta(t, min(base.Confidence+0.2, 1.0), boosted.Confidence, 1e-9)
	assert.Equal(t, base.Method, boosted.Method)

	// Exactly one shekel apart is outside the tolerance.
	unboosted := e.Match("ישראל ישר", roster, amount(t, "300"), amount(t, "301"))
	assert.InDelta(t, base.Confidence, unboosted.Confidence, 1e-9)
}

func TestMatchAmountBoostCapped(t *testing.T) {
	e := NewEngine(Config{})
	d := e.Match("ישראל ישראלי", candidates("ישראל ישראלי"), amount(t, "300"), amount(t, "300"))
	assert.Equal(t, 1.0, d.Confidence)
}

func TestMatchAmountBoostNeedsBothAmounts(t *testing.T) {
	e := NewEngine(Config{})
	roster := candidates("ישראל ישראלי")

	base := e.Match("ישראל ישר", roster, nil, nil)
	expectedOnly := e.Match("ישראל ישר", roster, amount(t, "300"), nil)
	actualOnly := e.Match("ישראל ישר", roster, nil, amount(t, "300"))

	assert.InDelta(t, base.Confidence, expectedOnly.Confidence, 1e-9)
	assert.InDelta(t, base.Confidence, actualOnly.Confidence, 1e-9)
}

func TestMatchAmountOnly(t *testing.T) {
	e := NewEngine(Config{})
	// Nothing name-like matches, agreement on amount is the only signal.
	d := e.Match("xyz", candidates("ישראל ישראלי"), amount(t, "300"), amount(t, "300"))

	assert.Equal(t, domain.MethodAmount, d.Method)
	assert.Empty(t, d.TenantID)
	assert.InDelta(t, 0.2, d.Confidence, 1e-9)
}

func TestMatchCustomThreshold(t *testing.T) {
	strict := NewEngine(Config{Threshold: 0.99})
	d := strict.Match("ישראלי ישראל", candidates("ישראל ישראלי"), nil, nil)

	// Reversed-name scores 0.95, below the raised threshold.
	assert.Empty(t, d.TenantID)
	assert.Equal(t, 0.95, d.Confidence)
}

func TestSuggest(t *testing.T) {
	e := NewEngine(Config{})
	roster := []Candidate{
		{ID: "t1", Name: "ישראל ישראלי"},
		{ID: "t2", Name: "ישראלה ישראלי"},
		{ID: "t3", Name: "כהן דוד"},
		{ID: "t4", Name: "לוי רחל"},
	}

	suggestions := e.Suggest("ישראל ישראלי", roster, 3)
	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), 3)

	assert.Equal(t, "t1", suggestions[0].TenantID)
	assert.Equal(t, 1.0, suggestions[0].Confidence)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Confidence, suggestions[i].Confidence)
	}
}

func TestSuggestEmpty(t *testing.T) {
	e := NewEngine(Config{})
	assert.Nil(t, e.Suggest("", candidates("ישראל ישראלי"), 3))
	assert.Nil(t, e.Suggest("ישראל", candidates("ישראל"), 0))
}

func TestSimilarityRatio(t *testing.T) {
	assert.Equal(t, 1.0, similarityRatio("", ""))
	assert.Equal(t, 1.0, similarityRatio("אבג", "אבג"))
	assert.Equal(t, 0.0, similarityRatio("אבג", ""))
	assert.InDelta(t, 0.75, similarityRatio("אבגד", "אבגה"), 1e-9)
}

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 0.0, partialRatio("", "אבג"))
	// Shorter string embedded verbatim in the longer one.
	assert.Equal(t, 1.0, partialRatio("דוד", "כהן דוד"))
}
