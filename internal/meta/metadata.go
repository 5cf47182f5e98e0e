// Package meta holds the loosely-structured key/value form that manual entry
// screens and transaction previews exchange with the intake service.
package meta

import (
    "bytes"
    "encoding/json"
    "errors"
    "sort"
    "strings"
)

// Metadata is a small string map with validation and stable JSON encoding.
type Metadata map[string]string

// Canonical form keys.
const (
    KeyDate        = "date"
    KeyParty       = "party"
    KeyAmount      = "amount"
    KeyCurrency    = "currency"
    KeyDescription = "description"
    KeyCategory    = "category"
    KeyName        = "name"
    KeyQuantity    = "quantity"
    KeyUnitPrice   = "unit_price"
    KeyReorder     = "reorder_threshold"
    KeyRole        = "role"
    KeyPhone       = "phone"
    KeyEmail       = "email"
    KeyAddress     = "address"
)

const (
    MaxPairs     = 32
    MaxKeyLen    = 64
    MaxValLen    = 1024
    MaxTotalJSON = 8192
)

// aliases maps alternative spellings (including the Arabic column headers of the
// desktop forms) onto canonical keys.
var aliases = map[string]string{
    "التاريخ":        KeyDate,
    "customer":       KeyParty,
    "client":         KeyParty,
    "supplier":       KeyParty,
    "vendor":         KeyParty,
    "العميل":         KeyParty,
    "المورد":         KeyParty,
    "المبلغ":         KeyAmount,
    "العملة":         KeyCurrency,
    "الوصف":          KeyDescription,
    "البيان":         KeyDescription,
    "الفئة":          KeyCategory,
    "item":           KeyName,
    "الصنف":          KeyName,
    "الاسم":          KeyName,
    "qty":            KeyQuantity,
    "الكمية":         KeyQuantity,
    "price":          KeyUnitPrice,
    "سعر الوحدة":     KeyUnitPrice,
    "reorder":        KeyReorder,
    "حد إعادة الطلب": KeyReorder,
}

// New copies m, folding alias keys onto their canonical names. Canonical keys win
// over aliases when both are present.
func New(m map[string]string) Metadata {
    if m == nil { return Metadata{} }
    out := make(Metadata, len(m))
    for k, v := range m {
        ck := Canonical(k)
        if ck != k {
            if _, exists := m[ck]; exists { continue }
        }
        out[ck] = v
    }
    return out
}

// Canonical returns the canonical key for k.
func Canonical(k string) string {
    k = strings.TrimSpace(k)
    lk := strings.ToLower(k)
    if c, ok := aliases[lk]; ok { return c }
    return lk
}

func (m Metadata) Clone() Metadata {
    if m == nil { return Metadata{} }
    out := make(Metadata, len(m))
    for k, v := range m { out[k] = v }
    return out
}

// Get returns the trimmed value for k; blank values count as absent.
func (m Metadata) Get(k string) (string, bool) {
    v, ok := m[Canonical(k)]
    v = strings.TrimSpace(v)
    if !ok || v == "" { return "", false }
    return v, true
}

// GetOr returns the value for k or def when absent.
func (m Metadata) GetOr(k, def string) string {
    if v, ok := m.Get(k); ok { return v }
    return def
}

func (m Metadata) Set(k, v string) {
    k = Canonical(k)
    if _, exists := m[k]; !exists && len(m) >= MaxPairs {
        // drop if exceeding pair limit; caller should Validate() to detect
        return
    }
    if len(k) == 0 || len(k) > MaxKeyLen { return }
    if len(v) > MaxValLen { return }
    m[k] = v
}

func (m Metadata) Del(k string) { delete(m, Canonical(k)) }

// Merge copies other into m; values in other override.
func (m Metadata) Merge(other Metadata) {
    if other == nil { return }
    keys := make([]string, 0, len(other))
    for k := range other { keys = append(keys, k) }
    sort.Strings(keys)
    for _, k := range keys { m.Set(k, other[k]) }
}

// Edited returns a copy of m with edits applied on top. A blank edit value
// clears the field; m itself is left untouched.
func (m Metadata) Edited(edits Metadata) Metadata {
    out := m.Clone()
    set := make(Metadata, len(edits))
    for k, v := range edits {
        if strings.TrimSpace(v) == "" { out.Del(k); continue }
        set[k] = v
    }
    out.Merge(set)
    return out
}

func (m Metadata) Validate() error {
    if len(m) > MaxPairs { return errors.New("too many fields") }
    for k, v := range m {
        if len(k) == 0 || len(k) > MaxKeyLen { return errors.New("field name too long or empty") }
        if len(v) > MaxValLen { return errors.New("field value too long") }
    }
    b, err := m.MarshalStableJSON()
    if err != nil { return err }
    if len(b) > MaxTotalJSON { return errors.New("form exceeds max json size") }
    return nil
}

// MarshalStableJSON returns a deterministic JSON representation with keys sorted.
func (m Metadata) MarshalStableJSON() ([]byte, error) {
    if len(m) == 0 { return []byte("{}"), nil }
    keys := make([]string, 0, len(m))
    for k := range m { keys = append(keys, k) }
    sort.Strings(keys)
    buf := &bytes.Buffer{}
    buf.WriteByte('{')
    for i, k := range keys {
        kb, _ := json.Marshal(k)
        vb, _ := json.Marshal(m[k])
        buf.Write(kb)
        buf.WriteByte(':')
        buf.Write(vb)
        if i < len(keys)-1 { buf.WriteByte(',') }
    }
    buf.WriteByte('}')
    return buf.Bytes(), nil
}

func (m Metadata) MarshalJSON() ([]byte, error) { return m.MarshalStableJSON() }

// UnmarshalJSON accepts string, number and boolean values so that clients can
// post {"amount": 1500} as well as {"amount": "1500"}.
func (m *Metadata) UnmarshalJSON(b []byte) error {
    if len(b) == 0 || bytes.Equal(b, []byte("null")) { *m = Metadata{}; return nil }
    var tmp map[string]json.RawMessage
    if err := json.Unmarshal(b, &tmp); err != nil { return err }
    flat := make(map[string]string, len(tmp))
    for k, raw := range tmp {
        if bytes.Equal(raw, []byte("null")) { continue }
        var s string
        if err := json.Unmarshal(raw, &s); err == nil {
            flat[k] = s
            continue
        }
        flat[k] = string(bytes.TrimSpace(raw))
    }
    *m = New(flat)
    return nil
}
