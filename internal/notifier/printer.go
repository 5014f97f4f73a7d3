package notifier

import (
	"context"
	"fmt"
	"io"
)

// Printer writes notifications to w instead of delivering them. It backs dry runs.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) EnsureChannel(id, name, importance string) error {
	return nil
}

func (p *Printer) Emit(ctx context.Context, notificationID int, title, body string) error {
	_, err := fmt.Fprintf(p.w, "[DryRun] #%d %s: %s\n", notificationID, title, body)
	return err
}
