package brick

import (
    "crypto/md5"
    "crypto/sha256"
    "encoding/hex"
    "sort"
)

// CalculateSignature computes the widget-call signature over the given
// parameters. Parameters are sorted by key, concatenated as key=value
// pairs, suffixed with the private key and hashed: md5 for signature
// version 2, sha256 for version 3.
func CalculateSignature(params map[string]string, privateKey string, version int) string {
    keys := make([]string, 0, len(params))
    for k := range params {
        keys = append(keys, k)
    }
    sort.Strings(keys)

    base := ""
    for _, k := range keys {
        base += k + "=" + params[k]
    }
    base += privateKey

    if version >= 3 {
        sum := sha256.Sum256([]byte(base))
        return hex.EncodeToString(sum[:])
    }
    sum := md5.Sum([]byte(base))
    return hex.EncodeToString(sum[:])
}
