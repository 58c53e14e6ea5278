// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filename

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/enex2md/pkg/types"
)

func TestBase(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Grocery List: 2024!", "Grocery-List-2024"},
		{"A/B", "A-B"},
		{"A B", "A-B"},
		{`back\slash`, "back-slash"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
		{"dots.in.title", "dots-in-title"},
		{"  padded  ", "padded"},
		{"a -- b", "a-b"},
		{"(parens) [brackets] {braces} <angles>", "parens-brackets-braces-angles"},
		{`"quoted" 'single'`, "quoted-single"},
		{"bullet • point", "bullet-point"},
		{"email@example.com #tag $5 100% ^up &and *star =eq |pipe ?q", "email-example-com-tag-5-100-up-and-star-eq-pipe-q"},
		{"non\u00a0breaking", "non-breaking"},
		{"next\u0085line", "next-line"},
		{"vertical\vtab", "vertical-tab"},
		{"line\u2028separator", "line-separator"},
		{"ideographic\u3000space", "ideographic-space"},
		{"Café über", "Café-über"},
		{"under_score", "under_score"},
		{"", Fallback},
		{"!!!", Fallback},
		{" - ", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Base(tt.title))
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Grocery-List-2024.md", Name("Grocery List: 2024!"))
	assert.Equal(t, "untitled.md", Name("???"))
}

func TestBase_Properties(t *testing.T) {
	inputs := []string{
		"Grocery List: 2024!",
		"--leading and trailing--",
		"a---b----c",
		"::;;[[]]",
		"mixed \t whitespace\r\n here",
		"already-clean",
		strings.Repeat("long title ", 40),
		strings.Repeat("ü", 150),
		"",
	}

	for _, in := range inputs {
		got := Base(in)
		assert.Equal(t, got, Base(got), "Base should be idempotent for %q", in)
		assert.Equal(t, got, Base(in), "Base should be deterministic for %q", in)
		assert.NotContains(t, got, "--", "no dash runs for %q", in)
		assert.NotEmpty(t, got)
		assert.LessOrEqual(t, len(got), maxBaseBytes)
		assert.False(t, strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-"), "no edge dashes for %q", in)
	}
}

func TestBase_ReplacesAllUnicodeSpace(t *testing.T) {
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if !unicode.IsSpace(r) {
			continue
		}
		title := "a" + string(r) + "b"
		assert.Equal(t, "a-b", Base(title), "space rune %U", r)
	}
}

func TestBase_TruncatesOnRuneBoundary(t *testing.T) {
	got := Base(strings.Repeat("ü", 150)) // 300 bytes
	assert.Len(t, got, maxBaseBytes)
	assert.True(t, strings.HasPrefix(strings.Repeat("ü", 150), got))

	got = Base("a" + strings.Repeat("ü", 150)) // odd offset forces a backoff
	assert.Len(t, got, maxBaseBytes-1)
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name           string
		titles         []string
		mode           types.CollisionMode
		wantNames      []string
		wantCollisions [][]int
	}{
		{
			name:      "no collisions",
			titles:    []string{"one", "two"},
			mode:      types.CollisionOverwrite,
			wantNames: []string{"one.md", "two.md"},
		},
		{
			name:           "overwrite keeps shared name",
			titles:         []string{"A/B", "other", "A B"},
			mode:           types.CollisionOverwrite,
			wantNames:      []string{"A-B.md", "other.md", "A-B.md"},
			wantCollisions: [][]int{{0, 2}},
		},
		{
			name:           "suffix disambiguates in input order",
			titles:         []string{"A/B", "A B", "A:B"},
			mode:           types.CollisionSuffix,
			wantNames:      []string{"A-B.md", "A-B-2.md", "A-B-3.md"},
			wantCollisions: [][]int{{0, 1, 2}},
		},
		{
			name:           "suffix skips names other titles own",
			titles:         []string{"note", "note", "note 2"},
			mode:           types.CollisionSuffix,
			wantNames:      []string{"note.md", "note-3.md", "note-2.md"},
			wantCollisions: [][]int{{0, 1}},
		},
		{
			name:           "case-insensitive collisions",
			titles:         []string{"Todo", "TODO"},
			mode:           types.CollisionSuffix,
			wantNames:      []string{"Todo.md", "TODO-2.md"},
			wantCollisions: [][]int{{0, 1}},
		},
		{
			name:           "degenerate titles collide on fallback",
			titles:         []string{"", "?!"},
			mode:           types.CollisionOverwrite,
			wantNames:      []string{"untitled.md", "untitled.md"},
			wantCollisions: [][]int{{0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.titles, tt.mode)
			assert.Equal(t, tt.wantNames, got.Names)
			assert.Equal(t, tt.wantCollisions, got.Collisions)
		})
	}
}

func TestAssignment_SameName(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   bool
	}{
		{name: "identical names", titles: []string{"A/B", "A B"}, want: true},
		{name: "case only", titles: []string{"Foo", "foo"}, want: false},
		{name: "mixed group", titles: []string{"A B", "a b", "A/B"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Plan(tt.titles, types.CollisionOverwrite)
			if assert.Len(t, a.Collisions, 1) {
				assert.Equal(t, tt.want, a.SameName(a.Collisions[0]))
			}
		})
	}
}

func TestPlan_SuffixNamesUnique(t *testing.T) {
	titles := []string{"x", "x", "x-2", "X", "x 2", "x", "x-3"}
	got := Plan(titles, types.CollisionSuffix)

	seen := make(map[string]bool)
	for _, name := range got.Names {
		key := strings.ToLower(name)
		assert.False(t, seen[key], "duplicate name %s", name)
		seen[key] = true
	}
}
