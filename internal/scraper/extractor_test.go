package scraper

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("lang tagged blocks", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><title>බ්‍රහ්මජාල සූත්‍රය</title></head><body>
<div lang="si">මා විසින් මෙසේ අසන ලදී</div>
<div lang="pi">evaṁ me sutaṁ</div>
</body></html>`

		got, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}

		if got.Title != "බ්‍රහ්මජාල සූත්‍රය" {
			t.Errorf("Title = %q", got.Title)
		}
		if got.Sinhala != "මා විසින් මෙසේ අසන ලදී" {
			t.Errorf("Sinhala = %q", got.Sinhala)
		}
		if got.Pali != "evaṁ me sutaṁ" {
			t.Errorf("Pali = %q", got.Pali)
		}
	})

	t.Run("largest lang block wins", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
<div lang="si">කෙටි</div>
<div lang="si">මේ වඩා දිගු සිංහල පෙළකි</div>
</body></html>`

		got, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got.Sinhala != "මේ වඩා දිගු සිංහල පෙළකි" {
			t.Errorf("Sinhala = %q, want the longer block", got.Sinhala)
		}
	})

	t.Run("nested divs inside a lang block are not double counted", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
<div lang="si">පිටත <div>ඇතුළත</div></div>
</body></html>`

		got, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got.Sinhala != "පිටත ඇතුළත" {
			t.Errorf("Sinhala = %q", got.Sinhala)
		}
	})

	t.Run("heading fallback when title missing", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><h1>Mūlapariyāya Sutta</h1><p>text</p></body></html>`

		got, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got.Title != "Mūlapariyāya Sutta" {
			t.Errorf("Title = %q", got.Title)
		}
	})

	t.Run("untitled fallback", func(t *testing.T) {
		t.Parallel()

		got, err := Extract(strings.NewReader("<html><body><p>x</p></body></html>"))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got.Title != "Untitled" {
			t.Errorf("Title = %q, want Untitled", got.Title)
		}
	})

	t.Run("script heuristic without lang attributes", func(t *testing.T) {
		t.Parallel()

		sinhala := strings.Repeat("සිංහල පෙළ ", 15)
		pali := "evaṁ me sutaṁ ekaṁ samayaṁ bhagavā " + strings.Repeat("antarā ca rājagahaṁ ", 5)
		page := `<html><body>
<div class="nav">Home | About</div>
<div class="translation">` + sinhala + `</div>
<div class="pali">` + pali + `</div>
</body></html>`

		got, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got.Sinhala == "" {
			t.Error("Sinhala should be found by script heuristic")
		}
		if got.Pali == "" {
			t.Error("Pali should be found by vocabulary heuristic")
		}
	})

	t.Run("script and style content excluded", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
<div lang="si">පෙළ<script>var x = "junk";</script><style>.a{}</style></div>
</body></html>`

		got, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if strings.Contains(got.Sinhala, "junk") {
			t.Errorf("Sinhala = %q, script content leaked", got.Sinhala)
		}
	})

	t.Run("whitespace collapsed", func(t *testing.T) {
		t.Parallel()

		page := "<html><body><div lang=\"pi\">evaṁ\n\n  me \t sutaṁ</div></body></html>"

		got, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got.Pali != "evaṁ me sutaṁ" {
			t.Errorf("Pali = %q", got.Pali)
		}
	})

	t.Run("decomposed text is NFC normalised", func(t *testing.T) {
		t.Parallel()

		// Input carries "ā" as 'a' + combining macron U+0304; output must
		// be the precomposed U+0101 form.
		page := "<html><body><div lang=\"pi\">bhagavā</div></body></html>"

		got, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got.Pali != "bhagavā" {
			t.Errorf("Pali = %q, want precomposed form", got.Pali)
		}
	})
}

func TestContainsSinhala(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "sinhala text", in: "සිංහල", want: true},
		{name: "mixed text", in: "the word බුදු appears", want: true},
		{name: "latin only", in: "plain english", want: false},
		{name: "empty", in: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := containsSinhala(tt.in); got != tt.want {
				t.Errorf("containsSinhala(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLooksLikePali(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "opening formula", in: "Evaṁ me sutaṁ", want: true},
		{name: "vocative", in: "katamā ca bhikkhave", want: true},
		{name: "english prose", in: "just some words here", want: false},
		{name: "empty", in: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := looksLikePali(tt.in); got != tt.want {
				t.Errorf("looksLikePali(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
