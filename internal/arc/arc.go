package arc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgnsrekt/arc_tab_sort/internal/osascript"
	"github.com/dgnsrekt/arc_tab_sort/internal/tabs"
)

const sectionSeparator = "==="

// ErrMalformedOutput is returned when the tab query output cannot be parsed.
var ErrMalformedOutput = errors.New("malformed tab query output")

// Config names the application and menu labels the adapter scripts against.
type Config struct {
	AppName      string
	MenuName     string
	PinMenuMatch string
}

func (c Config) withDefaults() Config {
	if c.AppName == "" {
		c.AppName = "Arc"
	}
	if c.MenuName == "" {
		c.MenuName = "Tabs"
	}
	if c.PinMenuMatch == "" {
		c.PinMenuMatch = "Pin"
	}
	return c
}

// Browser drives Arc and System Events through AppleScript.
type Browser struct {
	runner osascript.Runner
	cfg    Config
}

// NewBrowser creates a browser adapter on top of runner.
func NewBrowser(runner osascript.Runner, cfg Config) *Browser {
	return &Browser{runner: runner, cfg: cfg.withDefaults()}
}

// QueryTabs returns every tab of the active space of the front window, in browser order.
func (b *Browser) QueryTabs(ctx context.Context) ([]tabs.TabRecord, error) {
	out, err := b.runner.Run(ctx, b.queryScript())
	if err != nil {
		return nil, err
	}
	return parseTabs(out)
}

// SelectTab focuses the tab with the given id in the front window.
func (b *Browser) SelectTab(ctx context.Context, id string) error {
	_, err := b.runner.Run(ctx, b.selectScript(id))
	return err
}

// TogglePin clicks the pin/unpin menu item for the selected tab.
func (b *Browser) TogglePin(ctx context.Context) error {
	_, err := b.runner.Run(ctx, b.togglePinScript())
	return err
}

func (b *Browser) queryScript() string {
	return fmt.Sprintf(`tell application %s
	tell active space of front window
		set allIds to id of every tab
		set allURLs to URL of every tab
		set allLocs to location of every tab
		set AppleScript's text item delimiters to linefeed
		return (allIds as text) & linefeed & %s & linefeed & (allURLs as text) & linefeed & %s & linefeed & (allLocs as text)
	end tell
end tell`,
		osascript.Quote(b.cfg.AppName),
		osascript.Quote(sectionSeparator),
		osascript.Quote(sectionSeparator),
	)
}

func (b *Browser) selectScript(id string) string {
	return fmt.Sprintf(`tell application %s
	tell front window
		select (first tab whose id is %s)
	end tell
end tell`, osascript.Quote(b.cfg.AppName), osascript.Quote(id))
}

func (b *Browser) togglePinScript() string {
	return fmt.Sprintf(`tell application "System Events"
	tell process %s
		click (first menu item of menu %s of menu bar 1 whose name contains %s)
	end tell
end tell`,
		osascript.Quote(b.cfg.AppName),
		osascript.Quote(b.cfg.MenuName),
		osascript.Quote(b.cfg.PinMenuMatch),
	)
}

// parseTabs splits the query output into id, URL and location sections.
func parseTabs(out string) ([]tabs.TabRecord, error) {
	sections := [][]string{nil}
	for _, line := range strings.Split(strings.TrimRight(out, "\r\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == sectionSeparator {
			sections = append(sections, nil)
			continue
		}
		last := len(sections) - 1
		sections[last] = append(sections[last], line)
	}
	if len(sections) != 3 {
		return nil, fmt.Errorf("%w: %d sections in %d bytes", ErrMalformedOutput, len(sections), len(out))
	}
	// An empty space renders every list as a blank line. A blank line in a
	// non-empty space is a real value, such as a tab without a URL.
	if isBlankSection(sections[0]) && isBlankSection(sections[1]) && isBlankSection(sections[2]) {
		return nil, nil
	}

	ids, urls, locs := sections[0], sections[1], sections[2]
	if len(ids) != len(urls) || len(ids) != len(locs) {
		return nil, fmt.Errorf("%w: %d ids, %d urls, %d locations", ErrMalformedOutput, len(ids), len(urls), len(locs))
	}

	records := make([]tabs.TabRecord, len(ids))
	for i := range ids {
		records[i] = tabs.NewTabRecord(ids[i], urls[i], locs[i])
	}
	return records, nil
}

func isBlankSection(s []string) bool {
	return len(s) == 0 || (len(s) == 1 && s[0] == "")
}
