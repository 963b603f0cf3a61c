package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/quasi/log"
	"github.com/ardnew/quasi/profile"
)

// configIndent is the indent width of generated configuration files.
const configIndent = 2

// Init writes the current global flag values to the configuration file.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file."`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(errors.New("no command context"))
	}

	path, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || path == "" {
		return ErrWriteConfig.Wrap(errors.New("configuration path undefined"))
	}

	flags := i.settings(ktx)

	data, err := yaml.MarshalContext(ctx, flags, yaml.Indent(configIndent))
	if err != nil {
		return ErrWriteConfig.With(slog.String("path", path)).Wrap(err)
	}

	mode := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		mode |= os.O_EXCL
	}

	f, err := os.OpenFile(path, mode, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return ErrWriteConfig.With(slog.String("path", path)).Wrap(ErrFileExists)
	}

	if err != nil {
		return ErrWriteConfig.With(slog.String("path", path)).Wrap(err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return ErrWriteConfig.With(slog.String("path", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path),
		slog.Int("settings", len(flags)),
	)

	return nil
}

// settings returns the global flags with their current values, in
// declaration order. Help, version, and profiling flags are left out.
func (i *Init) settings(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", "version", profile.Tag}

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(p string) bool {
			return strings.HasPrefix(flag.Name, p)
		}) {
			continue
		}

		if v, ok := settingValue(ktx.FlagValue(flag)); ok {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return out
}

// settingValue reports v as a configuration value, omitting empty ones.
func settingValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case []string:
		return v, len(v) > 0
	case bool, int, int64, uint, uint64, float64:
		return v, true
	default:
		s := fmt.Sprint(v)

		return s, s != ""
	}
}
