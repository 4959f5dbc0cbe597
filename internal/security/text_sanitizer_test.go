package security

import (
	"strings"
	"testing"
)

// TestSanitize_StripsMarkup はタグが除去され本文のみが残ることを検証する。
func TestSanitize_StripsMarkup(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "プレーンテキストはそのまま",
			input: "ブログ記事の執筆",
			want:  "ブログ記事の執筆",
		},
		{
			name:  "強調タグが除去される",
			input: "<strong>writing</strong> draft",
			want:  "writing draft",
		},
		{
			name:  "リンクはテキストのみ残る",
			input: `<a href="https://example.com">link</a>`,
			want:  "link",
		},
		{
			name:  "アンパサンドはエスケープされずに残る",
			input: "research & writing",
			want:  "research & writing",
		},
		{
			name:  "前後の空白が除去される",
			input: "  writing \n",
			want:  "writing",
		},
		{
			name:  "空文字列は空文字列",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_RemovesScript はscriptタグとその中身が除去されることを検証する。
func TestSanitize_RemovesScript(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.Sanitize(`writing<script>alert("xss")</script>`)
	if strings.Contains(got, "<script") {
		t.Errorf("script tag should be removed, got %q", got)
	}
	if strings.Contains(got, "alert") {
		t.Errorf("script body should be removed, got %q", got)
	}
	if !strings.Contains(got, "writing") {
		t.Errorf("surrounding text should be kept, got %q", got)
	}
}

// TestSanitize_RemovesEventAttributes はon*属性を持つ要素が除去されることを検証する。
func TestSanitize_RemovesEventAttributes(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.Sanitize(`<img src="x" onerror="alert(1)">notes`)
	if strings.Contains(got, "onerror") || strings.Contains(got, "<img") {
		t.Errorf("img with event handler should be removed, got %q", got)
	}
	if got != "notes" {
		t.Errorf("Sanitize() = %q, want %q", got, "notes")
	}
}

// TestSanitize_Idempotent は同一入力に対して同一出力を返すことを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := "<em>draft</em> & review"
	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)
	if first != second {
		t.Errorf("Sanitize is not idempotent: %q != %q", first, second)
	}
}

// TestSanitizeOptional はnil許容テキストの扱いを検証する。
func TestSanitizeOptional(t *testing.T) {
	sanitizer := NewTextSanitizer()

	if got := sanitizer.SanitizeOptional(nil); got != nil {
		t.Errorf("SanitizeOptional(nil) = %q, want nil", *got)
	}

	onlyMarkup := "<p>  </p>"
	if got := sanitizer.SanitizeOptional(&onlyMarkup); got != nil {
		t.Errorf("SanitizeOptional(markup only) = %q, want nil", *got)
	}

	desc := "<b>writing</b>"
	got := sanitizer.SanitizeOptional(&desc)
	if got == nil || *got != "writing" {
		t.Errorf("SanitizeOptional(%q) = %v, want %q", desc, got, "writing")
	}
}

// TestTextSanitizer_ConcurrentUse は複数goroutineから同時に利用できることを検証する。
func TestTextSanitizer_ConcurrentUse(t *testing.T) {
	sanitizer := NewTextSanitizer()

	done := make(chan string, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- sanitizer.Sanitize("<i>parallel</i>")
		}()
	}
	for i := 0; i < 10; i++ {
		if got := <-done; got != "parallel" {
			t.Errorf("Sanitize() = %q, want %q", got, "parallel")
		}
	}
}
