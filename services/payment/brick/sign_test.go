package brick

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestCalculateSignatureVersion2(t *testing.T) {
    sign := CalculateSignature(map[string]string{
        "key":    "pub",
        "uid":    "user1",
        "widget": "p1_1",
    }, "secret", 2)

    assert.Equal(t, "60d92b9b4a3fdd84db58ba09bcc59637", sign)
}

func TestCalculateSignatureVersion3(t *testing.T) {
    sign := CalculateSignature(map[string]string{
        "key":    "pub",
        "uid":    "user1",
        "widget": "p1_1",
    }, "secret", 3)

    assert.Equal(t, "eeeb58a33e0e6ad383e8399af250d08ac65b0040ecda641bd1b12a8d8e131fd0", sign)
}

func TestCalculateSignatureSortsKeys(t *testing.T) {
    // currencyCode sorts after amount regardless of insertion order.
    sign := CalculateSignature(map[string]string{
        "currencyCode": "USD",
        "amount":       "9.99",
    }, "pk", 2)

    assert.Equal(t, "063ab1501593bfa6701fdce15ddd3441", sign)
}

func TestCalculateSignatureStableAcrossCalls(t *testing.T) {
    params := map[string]string{"b": "2", "a": "1", "c": "3"}
    first := CalculateSignature(params, "k", 2)
    second := CalculateSignature(params, "k", 2)
    assert.Equal(t, first, second)
}
