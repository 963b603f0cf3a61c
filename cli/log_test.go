package cli

import (
	"os"
	"testing"

	"github.com/ardnew/quasi/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	tests := []struct {
		args []string
		want logConfig
	}{
		{
			args: []string{"eval", "--log-level", "debug", "x"},
			want: logConfig{Level: "debug", Pretty: true},
		},
		{
			args: []string{"--log-level=trace", "--log-format=text"},
			want: logConfig{Level: "trace", Format: "text", Pretty: true},
		},
		{
			args: []string{"--no-log-pretty", "--log-caller"},
			want: logConfig{Caller: true},
		},
		{
			args: []string{"--log-pretty=false", "--log-caller=bogus"},
			want: logConfig{},
		},
		{
			args: []string{"--log-time-layout", "none", "--log-level", "--other"},
			want: logConfig{TimeLayout: "none", Pretty: true},
		},
		{
			args: []string{"--no-log-level=debug", "--unrelated"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		f := logConfig{Pretty: true}
		f.scan(tt.args)

		if f != tt.want {
			t.Errorf("scan(%q) = %+v, want %+v", tt.args, f, tt.want)
		}
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (&logConfig{}).vars()

	if got := vars["logLevelEnum"]; got != "trace,debug,info,warn,error" {
		t.Errorf("logLevelEnum = %q", got)
	}

	if got := vars["logFormatEnum"]; got == "" {
		t.Error("logFormatEnum is empty")
	}
}
