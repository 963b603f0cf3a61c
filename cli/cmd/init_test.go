package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Level   string   `default:"info"`
	Source  []string `short:"s"`
	Color   bool
	Secret  string `hidden:""`
	Workers int    `default:"4"`

	Init Init `cmd:""`
}

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
		force    bool
		wantErr  error
	}{
		{name: "create"},
		{name: "overwrite with force", existing: true, force: true},
		{name: "existing without force", existing: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")

			if tt.existing {
				if err := os.WriteFile(path, []byte("old: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli initCLI

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: path})
			if err != nil {
				t.Fatal(err)
			}

			args := []string{"init", "-s", "a.expr", "--secret", "x"}
			if tt.force {
				args = append(args, "--force")
			}

			ktx, err := parser.Parse(args)
			if err != nil {
				t.Fatal(err)
			}

			err = cli.Init.Run(WithContext(t.Context(), ktx))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("config is not YAML: %v\n%s", err, data)
			}

			if got["level"] != "info" {
				t.Errorf("level = %#v", got["level"])
			}

			if _, ok := got["old"]; ok {
				t.Error("previous content survived --force")
			}

			if got["color"] != false {
				t.Errorf("color = %#v", got["color"])
			}

			for _, omitted := range []string{"help", "secret"} {
				if _, ok := got[omitted]; ok {
					t.Errorf("%s written to config", omitted)
				}
			}

			if src, ok := got["source"].([]any); !ok || len(src) != 1 || src[0] != "a.expr" {
				t.Errorf("source = %#v", got["source"])
			}
		})
	}
}

func TestInit_NoContext(t *testing.T) {
	if err := (&Init{}).Run(t.Context()); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("expected ErrWriteConfig, got %v", err)
	}
}

func TestSettingValue(t *testing.T) {
	tests := []struct {
		in   any
		ok   bool
		want any
	}{
		{nil, false, nil},
		{"", false, ""},
		{"x", true, "x"},
		{[]string{}, false, []string{}},
		{3, true, 3},
		{false, true, false},
	}

	for _, tt := range tests {
		got, ok := settingValue(tt.in)
		if ok != tt.ok {
			t.Errorf("settingValue(%#v) ok = %v, want %v", tt.in, ok, tt.ok)
		}

		if ok && got != tt.want {
			t.Errorf("settingValue(%#v) = %#v", tt.in, got)
		}
	}
}
