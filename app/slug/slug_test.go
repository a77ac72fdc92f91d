package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Technology", "technology"},
		{"spaces", "World News", "world-news"},
		{"punctuation runs", "Sports -- Football!!", "sports-football"},
		{"diacritics", "Café Société", "cafe-societe"},
		{"author name", "Jane O'Brien", "jane-o-brien"},
		{"leading and trailing junk", "  Breaking News  ", "breaking-news"},
		{"numbers", "Top 10 Stories", "top-10-stories"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Make(tc.in); got != tc.want {
				t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMakeDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Make("Économie & Finance"); got != "economie-finance" {
			t.Fatalf("Make not deterministic, got %q", got)
		}
	}
}
