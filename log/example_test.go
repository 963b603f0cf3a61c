package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/quasi/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Info("evaluated", slog.String("expr", "x + 1"), slog.Int("result", 3))
	logger.Debug("hidden")
	// Output: level=INFO msg=evaluated expr="x + 1" result=3
}
