package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps look like "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one layout or render pass of a command.
type progress struct {
	logger *log.Logger
	pass   string
	start  time.Time
}

func newProgress(l *log.Logger, pass string) *progress {
	l.Debug("pass started", "pass", pass)
	return &progress{logger: l, pass: pass, start: time.Now()}
}

// done logs the end of the pass with its elapsed time and any extra
// key/value pairs, e.g. "render finished pass=render formats=2 elapsed=12ms".
func (p *progress) done(keyvals ...any) {
	kv := append([]any{"pass", p.pass}, keyvals...)
	kv = append(kv, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(p.pass+" finished", kv...)
}
