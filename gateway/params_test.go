package gateway

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestParamsHasDistinguishesUnsetFromFalse(t *testing.T) {
    p := NewParams()
    assert.False(t, p.Has("capture"))
    assert.True(t, p.GetBool("capture", true))

    p.Set("capture", false)
    assert.True(t, p.Has("capture"))
    assert.False(t, p.GetBool("capture", true))
}

func TestParamsGetBoolParsesLooseValues(t *testing.T) {
    p := NewParams().
        Set("a", "true").
        Set("b", "0").
        Set("c", 1).
        Set("d", float64(0))

    assert.True(t, p.GetBool("a", false))
    assert.False(t, p.GetBool("b", true))
    assert.True(t, p.GetBool("c", false))
    assert.False(t, p.GetBool("d", true))
}

func TestParamsGetStringKeepsIntegralNumbersClean(t *testing.T) {
    p := NewParams().
        Set("id", float64(12341234)).
        Set("amount", 9.99).
        Set("count", 7)

    assert.Equal(t, "12341234", p.GetString("id"))
    assert.Equal(t, "9.99", p.GetString("amount"))
    assert.Equal(t, "7", p.GetString("count"))
    assert.Equal(t, "", p.GetString("missing"))
}

func TestParamsMergeOverwrites(t *testing.T) {
    p := NewParams().Set("currency", "USD")
    p.Merge(map[string]interface{}{"currency": "EUR", "amount": "5.00"})

    assert.Equal(t, "EUR", p.GetString("currency"))
    assert.Equal(t, "5.00", p.GetString("amount"))
}

func TestParamsGetStringMap(t *testing.T) {
    p := NewParams().
        Set("typed", map[string]string{"k": "v"}).
        Set("untyped", map[string]interface{}{"n": float64(3)}).
        Set("wrong", 42)

    assert.Equal(t, map[string]string{"k": "v"}, p.GetStringMap("typed"))
    assert.Equal(t, map[string]string{"n": "3"}, p.GetStringMap("untyped"))
    assert.Nil(t, p.GetStringMap("wrong"))
    assert.Nil(t, p.GetStringMap("missing"))
}
