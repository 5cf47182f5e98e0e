package slug

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Office Supplies":  "office_supplies",
		"  rent -- March ": "rent_march",
		"إيجار المحل":      "إيجار_المحل",
		"رَواتِب":          "رواتب",
		"":                 "",
		"__x__":            "x",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSlug(t *testing.T) {
	for _, s := range []string{"general", "office_supplies", "رواتب"} {
		if !IsSlug(s) {
			t.Fatalf("expected %q to be a slug", s)
		}
	}
	for _, s := range []string{"x", "Upper", "has space", ""} {
		if IsSlug(s) {
			t.Fatalf("expected %q not to be a slug", s)
		}
	}
}
