package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	want := Prefs{Theme: "Nightfox"}
	if got := Defaults(); got != want {
		t.Fatalf("Defaults() = %+v, want %+v", got, want)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("Load = %+v, want defaults %+v", p, Defaults())
	}
	if p.HideDone || p.LastList != "" {
		t.Fatalf("HideDone = %v, LastList = %q; want false and empty", p.HideDone, p.LastList)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writePrefs(t, filepath.Join(home, ".config", "todoable", "prefs.toml"),
		"theme = \"Slate\"\nhide_done = true\nlast_list = \"list-42\"\n")

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Prefs{Theme: "Slate", HideDone: true, LastList: "list-42"}
	if p != want {
		t.Fatalf("Load = %+v, want %+v", p, want)
	}
}

func TestLoad_PartialFileKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writePrefs(t, path, "hide_done = true\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Prefs{Theme: defaultTheme, HideDone: true}
	if p != want {
		t.Fatalf("Load = %+v, want %+v", p, want)
	}
}

func TestLoad_TrimsLastList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"padded id", "last_list = \"  list-7 \\t\"\n", "list-7"},
		{"blank id", "last_list = \"   \"\n", ""},
		{"clean id", "last_list = \"list-8\"\n", "list-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			writePrefs(t, path, tt.content)

			p, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if p.LastList != tt.want {
				t.Fatalf("LastList = %q, want %q", p.LastList, tt.want)
			}
		})
	}
}

func TestSave_RoundTripsEveryField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	p := Prefs{Theme: "Kanagawa", HideDone: true, LastList: "list-1"}
	if err := Save(path, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != p {
		t.Fatalf("Load = %+v, want %+v", loaded, p)
	}
}

func TestSave_OverwritesPreviousSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")

	if err := Save(path, Prefs{Theme: "Slate", HideDone: true, LastList: "old"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := Save(path, Prefs{Theme: "Slate", LastList: "new"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.LastList != "new" || p.HideDone {
		t.Fatalf("Load = %+v, want LastList new and HideDone false", p)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	writePrefs(t, path, "theme = \"\"\nlast_list = \"list-3\"\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme || p.LastList != "list-3" {
		t.Fatalf("Load = %+v, want default theme and list-3", p)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	writePrefs(t, path, "hide_done = true\nnot valid toml {{{\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}
