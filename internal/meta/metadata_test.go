package meta

import (
	"encoding/json"
	"testing"
)

func TestSetGetDelMergeClone(t *testing.T) {
	form := New(nil)
	form.Set("amount", "1")
	if value, ok := form.Get("amount"); !ok || value != "1" {
		t.Fatalf("get failed")
	}
	form.Merge(New(map[string]string{"party": "Acme"}))
	if value, ok := form.Get("party"); !ok || value != "Acme" {
		t.Fatalf("merge failed")
	}
	cloned := form.Clone()
	if len(cloned) != 2 || cloned["amount"] != "1" {
		t.Fatalf("clone failed: %+v", cloned)
	}
	form.Del("amount")
	if _, ok := form.Get("amount"); ok {
		t.Fatalf("del failed")
	}
}

func TestEditedOverridesAndClears(t *testing.T) {
	form := New(map[string]string{"party": "Acme", "amount": "1500", "description": "note"})
	edited := form.Edited(New(map[string]string{"المبلغ": "1200", "description": " "}))
	if v, _ := edited.Get(KeyAmount); v != "1200" {
		t.Fatalf("amount = %q", v)
	}
	if _, ok := edited[KeyDescription]; ok {
		t.Fatalf("blank edit should clear description: %+v", edited)
	}
	if v, _ := edited.Get(KeyParty); v != "Acme" {
		t.Fatalf("untouched field lost: %q", v)
	}
	if form["amount"] != "1500" || form["description"] != "note" {
		t.Fatalf("original form changed: %+v", form)
	}
	if got := form.Edited(nil); len(got) != 3 {
		t.Fatalf("nil edits: %+v", got)
	}
}

func TestAliasesFoldOntoCanonicalKeys(t *testing.T) {
	form := New(map[string]string{"التاريخ": "2024-01-02", "العميل": "شركة", "المبلغ": "1500", "Currency": "sar"})
	if v, _ := form.Get(KeyDate); v != "2024-01-02" {
		t.Fatalf("date alias: %q", v)
	}
	if v, _ := form.Get(KeyParty); v != "شركة" {
		t.Fatalf("party alias: %q", v)
	}
	if v, _ := form.Get("العملة"); v != "sar" {
		t.Fatalf("lookup by alias: %q", v)
	}
	// canonical wins over alias
	form = New(map[string]string{"party": "A", "customer": "B"})
	if v, _ := form.Get(KeyParty); v != "A" {
		t.Fatalf("canonical precedence: %q", v)
	}
}

func TestBlankValuesAreAbsent(t *testing.T) {
	form := New(map[string]string{"date": "   "})
	if _, ok := form.Get(KeyDate); ok {
		t.Fatalf("blank must be absent")
	}
	if got := form.GetOr(KeyDate, "today"); got != "today" {
		t.Fatalf("GetOr = %q", got)
	}
}

func TestValidationLimits(t *testing.T) {
	pairs := make(map[string]string)
	for i := 0; i < MaxPairs+1; i++ {
		pairs[string(rune('a'+i%26))+"k"+string(rune('a'+i/26))] = "v"
	}
	if err := New(pairs).Validate(); err == nil {
		t.Fatalf("expected too many pairs")
	}
	longVal := make([]byte, MaxValLen+1)
	for i := range longVal {
		longVal[i] = 'v'
	}
	if err := New(map[string]string{"k": string(longVal)}).Validate(); err == nil {
		t.Fatalf("expected value too long")
	}
}

func TestStableJSONAndLooseUnmarshal(t *testing.T) {
	form := New(map[string]string{"party": "2", "amount": "1"})
	b, _ := form.MarshalStableJSON()
	if string(b) != `{"amount":"1","party":"2"}` {
		t.Fatalf("unexpected stable json: %s", string(b))
	}
	var decoded Metadata
	if err := json.Unmarshal([]byte(`{"amount": 1500.5, "المورد": "X", "note": null}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, _ := decoded.Get(KeyAmount); v != "1500.5" {
		t.Fatalf("numeric value: %q", v)
	}
	if v, _ := decoded.Get(KeyParty); v != "X" {
		t.Fatalf("alias value: %q", v)
	}
	if _, ok := decoded["note"]; ok {
		t.Fatalf("null must be dropped")
	}
}
