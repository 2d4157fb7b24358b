package render

import (
	"testing"

	"mpvstatusd/internal/config"
	"mpvstatusd/internal/mpv"
	"mpvstatusd/internal/props"
)

func rule(mutate func(*config.DisplayRule)) config.DisplayRule {
	r := config.DefaultDisplayRule()
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestRender_Disconnected(t *testing.T) {
	r := New(&config.Config{
		Format: "{volume}% {media-title}",
		Empty:  "no player",
	})

	cache := props.New()
	cache.Set("volume", mpv.NumberValue(70))
	cache.Set("media-title", mpv.StringValue("Song"))

	// Connection state wins over whatever the cache holds.
	if got := r.Render(cache, false); got != "no player" {
		t.Errorf("Render disconnected = %q, want %q", got, "no player")
	}
}

func TestRender_WorkedExample(t *testing.T) {
	// {volume} resolves to the custom-rule output "70% vol",
	// {mediatitle} resolves to raw "Song"; the literal % in the top
	// format stays, yielding "70% vol% Song".
	r := New(&config.Config{
		Format: "{volume}% {mediatitle}",
		Empty:  "",
		Custom: map[string]config.DisplayRule{
			"volume": rule(func(r *config.DisplayRule) {
				r.Format = "{prop}% vol"
				r.MaxLength = 10
			}),
		},
	})

	cache := props.New()
	cache.Set("volume", mpv.NumberValue(70))
	cache.Set("mediatitle", mpv.StringValue("Song"))

	if got := r.Render(cache, true); got != "70% vol% Song" {
		t.Errorf("Render = %q, want %q", got, "70% vol% Song")
	}
}

func TestRender_Idempotent(t *testing.T) {
	r := New(&config.Config{
		Format: "{volume} {media-title}",
		Custom: map[string]config.DisplayRule{
			"volume": rule(func(r *config.DisplayRule) { r.Format = "({prop}%)" }),
		},
	})

	cache := props.New()
	cache.Set("volume", mpv.NumberValue(52.5))
	cache.Set("media-title", mpv.StringValue("Track"))

	first := r.Render(cache, true)
	for i := 0; i < 10; i++ {
		if got := r.Render(cache, true); got != first {
			t.Fatalf("render %d = %q, differs from first %q", i, got, first)
		}
	}
}

func TestRender_UnsetWithoutRule(t *testing.T) {
	r := New(&config.Config{
		Format: "[{media-title}]",
	})

	// Unset resolves to the empty string, not a null marker.
	if got := r.Render(props.New(), true); got != "[]" {
		t.Errorf("Render = %q, want %q", got, "[]")
	}
}

func TestRender_UnsetSuppressesInnerFormat(t *testing.T) {
	r := New(&config.Config{
		Format: "{media-title}{volume}",
		Custom: map[string]config.DisplayRule{
			"volume": rule(func(r *config.DisplayRule) { r.Format = " ({prop}%)" }),
		},
	})

	cache := props.New()
	cache.Set("media-title", mpv.StringValue("Song"))

	// No volume yet: the rule's literal " (...)" must not leak through.
	if got := r.Render(cache, true); got != "Song" {
		t.Errorf("Render = %q, want %q", got, "Song")
	}

	cache.Set("volume", mpv.NumberValue(70))
	if got := r.Render(cache, true); got != "Song (70%)" {
		t.Errorf("Render = %q, want %q", got, "Song (70%)")
	}
}

func TestApplyRule_RoundTrip(t *testing.T) {
	// Empty replace map and a generous max length leave the value
	// untouched inside the inner format.
	r := rule(func(r *config.DisplayRule) {
		r.Format = ">> {prop} <<"
		r.MaxLength = 100
	})

	got := applyRule(r, mpv.StringValue("Some Title"))
	if got != ">> Some Title <<" {
		t.Errorf("applyRule = %q, want %q", got, ">> Some Title <<")
	}
}

func TestApplyRule_TruncationLaw(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		maxLen  int
		suffix  string
		want    string
	}{
		{
			name:   "ascii",
			value:  "abcdefghijklmnop",
			maxLen: 10,
			suffix: "...",
			want:   "abcdefg...",
		},
		{
			name:   "multibyte runes counted as one",
			value:  "こんにちは世界こんにちは世界",
			maxLen: 10,
			suffix: "...",
			want:   "こんにちは世界...",
		},
		{
			name:   "suffix itself multibyte",
			value:  "abcdefghijklmnop",
			maxLen: 10,
			suffix: "…",
			want:   "abcdefghi…",
		},
		{
			name:   "empty suffix",
			value:  "abcdefghijklmnop",
			maxLen: 5,
			suffix: "",
			want:   "abcde",
		},
		{
			name:   "suffix longer than cap",
			value:  "abcdefgh",
			maxLen: 2,
			suffix: "....",
			want:   "..",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rule(func(r *config.DisplayRule) {
				r.MaxLength = tt.maxLen
				r.ShortenStr = tt.suffix
			})
			got := applyRule(r, mpv.StringValue(tt.value))
			if got != tt.want {
				t.Errorf("applyRule = %q, want %q", got, tt.want)
			}
			if n := len([]rune(got)); n != tt.maxLen {
				t.Errorf("result length = %d runes, want exactly %d", n, tt.maxLen)
			}
		})
	}
}

func TestApplyRule_NoTruncationAtExactLength(t *testing.T) {
	r := rule(func(r *config.DisplayRule) { r.MaxLength = 5 })
	if got := applyRule(r, mpv.StringValue("abcde")); got != "abcde" {
		t.Errorf("applyRule = %q, want %q", got, "abcde")
	}
}

func TestApplyRule_ReplaceBeforeTruncation(t *testing.T) {
	r := rule(func(r *config.DisplayRule) {
		r.MaxLength = 6
		r.ShortenStr = "."
		r.Replace = map[string]string{"_": " "}
	})
	if got := applyRule(r, mpv.StringValue("one_two_three")); got != "one t." {
		t.Errorf("applyRule = %q, want %q", got, "one t.")
	}
}

func TestApplyRule_ReplaceDeterministicOrder(t *testing.T) {
	// Overlapping keys apply in lexicographic order: "ab" before "b".
	r := rule(func(r *config.DisplayRule) {
		r.Replace = map[string]string{
			"b":  "Y",
			"ab": "X",
		}
	})
	for i := 0; i < 20; i++ {
		if got := applyRule(r, mpv.StringValue("ab b")); got != "X Y" {
			t.Fatalf("applyRule = %q, want %q", got, "X Y")
		}
	}
}

func TestReferencedProperties(t *testing.T) {
	cfg := &config.Config{
		Format: "{volume} {media-title} {volume}",
		Custom: map[string]config.DisplayRule{
			"volume":    rule(nil),
			"loop-file": rule(nil),
		},
	}

	got := ReferencedProperties(cfg)
	want := []string{"loop-file", "media-title", "volume"}
	if len(got) != len(want) {
		t.Fatalf("ReferencedProperties = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReferencedProperties[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPlaceholders(t *testing.T) {
	got := placeholders("{a} text {metadata/by-key/album} {a}")
	if len(got) != 2 || got[0] != "a" || got[1] != "metadata/by-key/album" {
		t.Errorf("placeholders = %v", got)
	}
}

func TestExpand_UnknownLeftUnchanged(t *testing.T) {
	if got := expand("{known} {unknown}", map[string]string{"known": "v"}); got != "v {unknown}" {
		t.Errorf("expand = %q", got)
	}
}
