package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgnsrekt/arc_tab_sort/internal/osascript"
)

// DefaultTitle is shown above every status message.
const DefaultTitle = "Arc Tab Sort"

// Status messages sent during a sort run.
const (
	MessageNothingToSort = "Nothing to sort"
	MessageDone          = "Done!"
)

// SortingMessage announces how many tabs are about to be reordered.
func SortingMessage(n int) string {
	return fmt.Sprintf("Sorting %d tabs...", n)
}

// Notifier posts macOS user notifications through osascript.
type Notifier struct {
	runner osascript.Runner
	title  string
}

// New returns a notifier using title, or DefaultTitle when empty.
func New(runner osascript.Runner, title string) *Notifier {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return &Notifier{runner: runner, title: title}
}

// Send displays message as a transient notification. It does not wait for the user.
func (n *Notifier) Send(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("notification message is required")
	}
	script := fmt.Sprintf("display notification %s with title %s",
		osascript.Quote(message), osascript.Quote(n.title))
	_, err := n.runner.Run(ctx, script)
	return err
}
