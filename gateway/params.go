package gateway

import (
    "fmt"
    "strconv"
)

// Params is the parameter bag backing every request the gateway creates.
// Keys are unique; reading an unset key yields the zero value or the
// supplied default. Has reports presence so that boolean flags can
// default to true while still honoring an explicit false.
type Params struct {
    values map[string]interface{}
}

func NewParams() *Params {
    return &Params{values: make(map[string]interface{})}
}

func (p *Params) Set(key string, value interface{}) *Params {
    p.values[key] = value
    return p
}

func (p *Params) Get(key string) interface{} {
    return p.values[key]
}

func (p *Params) Has(key string) bool {
    _, ok := p.values[key]
    return ok
}

// Merge copies every entry of src into the bag, overwriting existing keys.
func (p *Params) Merge(src map[string]interface{}) *Params {
    for k, v := range src {
        p.values[k] = v
    }
    return p
}

// GetString renders the value under key as a string. Numeric values are
// formatted without a decimal point so that ids like 12341234 survive the
// round trip through an untyped bag.
func (p *Params) GetString(key string) string {
    v, ok := p.values[key]
    if !ok || v == nil {
        return ""
    }
    return stringify(v)
}

// GetBool reads a flag, falling back to def when the key was never set.
// An explicitly stored false wins over the default.
func (p *Params) GetBool(key string, def bool) bool {
    v, ok := p.values[key]
    if !ok || v == nil {
        return def
    }
    switch t := v.(type) {
    case bool:
        return t
    case string:
        b, err := strconv.ParseBool(t)
        if err != nil {
            return def
        }
        return b
    case int:
        return t != 0
    case float64:
        return t != 0
    default:
        return def
    }
}

// GetStringMap reads a nested map value, used for the custom/customer/history
// fraud-data sub maps. Returns nil when absent or of the wrong shape.
func (p *Params) GetStringMap(key string) map[string]string {
    v, ok := p.values[key]
    if !ok || v == nil {
        return nil
    }
    switch t := v.(type) {
    case map[string]string:
        return t
    case map[string]interface{}:
        out := make(map[string]string, len(t))
        for k, item := range t {
            out[k] = stringify(item)
        }
        return out
    default:
        return nil
    }
}

func stringify(v interface{}) string {
    switch t := v.(type) {
    case string:
        return t
    case fmt.Stringer:
        return t.String()
    case int:
        return strconv.Itoa(t)
    case int64:
        return strconv.FormatInt(t, 10)
    case float64:
        // json.Unmarshal turns every number into float64; keep integral
        // values free of a trailing ".00".
        if t == float64(int64(t)) {
            return strconv.FormatInt(int64(t), 10)
        }
        return strconv.FormatFloat(t, 'f', -1, 64)
    case bool:
        if t {
            return "1"
        }
        return "0"
    default:
        return fmt.Sprintf("%v", t)
    }
}
