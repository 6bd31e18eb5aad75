package gui

import "testing"

func TestThemePreferenceFromString(t *testing.T) {
	tests := []struct {
		raw  string
		want ThemePreference
	}{
		{raw: "dark", want: ThemeDark},
		{raw: " DARK ", want: ThemeDark},
		{raw: "light", want: ThemeLight},
		{raw: "auto", want: ThemeAuto},
		{raw: "bogus", want: ThemeAuto},
		{raw: "", want: ThemeAuto},
	}
	for _, tc := range tests {
		if got := ThemePreferenceFromString(tc.raw); got != tc.want {
			t.Fatalf("ThemePreferenceFromString(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestPaletteForPreference(t *testing.T) {
	orig := detectDarkMode
	t.Cleanup(func() { detectDarkMode = orig })

	if got := paletteForPreference(ThemeDark); !got.isDark() {
		t.Fatalf("explicit dark preference should pick the dark palette")
	}
	if got := paletteForPreference(ThemeLight); got.isDark() {
		t.Fatalf("explicit light preference should pick the light palette")
	}

	detectDarkMode = func() (bool, error) { return true, nil }
	if got := paletteForPreference(ThemeAuto); !got.isDark() {
		t.Fatalf("auto should follow the detected dark mode")
	}
	detectDarkMode = func() (bool, error) { return false, nil }
	if got := paletteForPreference(ThemeAuto); got.isDark() {
		t.Fatalf("auto should follow the detected light mode")
	}
}
