package tui

import (
	"strings"
	"testing"
)

func TestViewString(t *testing.T) {
	tests := []struct {
		view View
		want string
	}{
		{ViewWorkspace, "workspace"},
		{ViewMyPage, "my page"},
		{ViewTeams, "teams"},
	}
	for _, tc := range tests {
		if got := tc.view.String(); got != tc.want {
			t.Fatalf("View(%d).String() = %q, want %q", tc.view, got, tc.want)
		}
	}
}

func TestHelpLine_JoinsBindings(t *testing.T) {
	keys := defaultKeyMap()
	got := helpLine(keys.Select, keys.Back)
	if got != "enter select/send | esc back" {
		t.Fatalf("helpLine = %q", got)
	}
}

func TestNewTheme_SelectsByName(t *testing.T) {
	if got := NewTheme("midnight").Name; got != ThemeMidnight {
		t.Fatalf("theme name = %q", got)
	}
	if got := NewTheme("unknown").Name; got != ThemePorcelain {
		t.Fatalf("fallback theme name = %q", got)
	}
}

func TestNewTheme_NoColorEnvWins(t *testing.T) {
	t.Setenv("COGNI_NO_COLOR", "1")
	if got := NewTheme("midnight").Name; got != ThemeName("no-color") {
		t.Fatalf("theme name = %q, want no-color", got)
	}
}

func TestNewTheme_EnvOverridesConfig(t *testing.T) {
	t.Setenv("COGNI_THEME", "midnight")
	if got := NewTheme("porcelain").Name; got != ThemeMidnight {
		t.Fatalf("theme name = %q, want midnight", got)
	}
}

func TestNewNotice_AssignsUniqueIDs(t *testing.T) {
	a := newNotice(noticeInfo, "one")
	b := newNotice(noticeInfo, "two")
	if a.ID == "" || b.ID == "" {
		t.Fatal("notice without ID")
	}
	if a.ID == b.ID {
		t.Fatalf("notice IDs collide: %q", a.ID)
	}
}

func TestFormatReactions_SortedAndCounted(t *testing.T) {
	got := formatReactions(map[string]int{"like": 2, "heart": 1})
	if got != "heart×1 like×2" {
		t.Fatalf("formatReactions = %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512B"},
		{2048, "2.0KiB"},
		{3 << 20, "3.0MiB"},
	}
	for _, tc := range tests {
		if got := formatSize(tc.in); got != tc.want {
			t.Fatalf("formatSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMarkdownRenderer_FallsBackToPlainText(t *testing.T) {
	md := NewMarkdownRenderer(NewTheme("porcelain"))
	out := md.Render("plain words only", 60)
	if !strings.Contains(out, "plain words only") {
		t.Fatalf("rendered output lost the text: %q", out)
	}
}
