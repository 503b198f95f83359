package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/layer-3/xosclaim/ports"
)

const timestampLayout = "01/02/06 15:04:05 MST"

var (
	stampColor = color.New(color.FgCyan, color.Bold)
	sepColor   = color.New(color.FgWhite, color.Bold)
	infoColor  = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
)

// Reporter writes timestamped status lines
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
	loc *time.Location
	now func() time.Time
}

var _ ports.Reporter = (*Reporter)(nil)

// NewReporter creates a reporter stamping lines in the given time zone.
// Unknown zones fall back to local time.
func NewReporter(out io.Writer, timezone string) *Reporter {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.Local
	}
	return &Reporter{out: out, loc: loc, now: time.Now}
}

func (r *Reporter) Info(format string, args ...any) {
	r.line(infoColor, format, args...)
}

func (r *Reporter) Success(format string, args ...any) {
	r.line(okColor, format, args...)
}

func (r *Reporter) Warn(format string, args ...any) {
	r.line(warnColor, format, args...)
}

func (r *Reporter) Fail(format string, args ...any) {
	r.line(failColor, format, args...)
}

func (r *Reporter) line(c *color.Color, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stampColor.Fprintf(r.out, "[ %s ]", r.now().In(r.loc).Format(timestampLayout))
	sepColor.Fprint(r.out, " | ")
	c.Fprint(r.out, fmt.Sprintf(format, args...))
	fmt.Fprintln(r.out)
}

// Discard drops every status line
type Discard struct{}

func (Discard) Info(string, ...any)    {}
func (Discard) Success(string, ...any) {}
func (Discard) Warn(string, ...any)    {}
func (Discard) Fail(string, ...any)    {}
