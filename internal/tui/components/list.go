package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/tui/styles"
)

// Layout constants
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Header line plus footer line inside the border
	ChromeLines = 2
)

// List is a scrollable list over ListEntry items. It renders whatever the
// page cache currently holds; loading more is the parent model's job, driven
// by the Sentinel.
type List struct {
	items []domain.ListEntry

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	// Pagination display state, mirrored from the cache snapshot
	loading      bool
	hasMore      bool
	spinnerFrame int
}

// NewList creates an empty list
func NewList(title string) *List {
	return &List{title: title, focused: true}
}

// SetTitle changes the header title
func (l *List) SetTitle(title string) { l.title = title }

// SetItems replaces the list contents, clamping the cursor. The cursor is
// kept in place when items are appended (a new page arrived) and pulled
// back when items were removed.
func (l *List) SetItems(items []domain.ListEntry) {
	l.items = items
	if l.cursor >= len(items) {
		l.cursor = len(items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

// SetPageState mirrors the cache snapshot's loading/hasMore flags into the
// footer display
func (l *List) SetPageState(loading, hasMore bool) {
	l.loading = loading
	l.hasMore = hasMore
}

// SetSize updates the list dimensions
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.maxVisible = height - BorderHeight - ChromeLines
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
	l.clampOffset()
}

// SetFocused toggles the focus border
func (l *List) SetFocused(focused bool) { l.focused = focused }

// AdvanceSpinner moves the loading animation one frame
func (l *List) AdvanceSpinner() {
	l.spinnerFrame = (l.spinnerFrame + 1) % len(styles.SpinnerFrames)
}

// Loading reports whether the loading footer is showing
func (l *List) Loading() bool { return l.loading }

// Cursor returns the selected index
func (l *List) Cursor() int { return l.cursor }

// Count returns the number of loaded items
func (l *List) Count() int { return len(l.items) }

// Selected returns the entry under the cursor, or nil for an empty list
func (l *List) Selected() domain.ListEntry {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return nil
	}
	return l.items[l.cursor]
}

// CursorUp moves the selection up one row
func (l *List) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
		l.clampOffset()
	}
}

// CursorDown moves the selection down one row
func (l *List) CursorDown() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
		l.clampOffset()
	}
}

// HalfPageUp moves the selection half a screen up
func (l *List) HalfPageUp() {
	l.cursor -= l.maxVisible / 2
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

// HalfPageDown moves the selection half a screen down
func (l *List) HalfPageDown() {
	l.cursor += l.maxVisible / 2
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

// GotoTop jumps to the first item
func (l *List) GotoTop() {
	l.cursor = 0
	l.offset = 0
}

// GotoBottom jumps to the last loaded item
func (l *List) GotoBottom() {
	l.cursor = len(l.items) - 1
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

func (l *List) clampOffset() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.maxVisible > 0 && l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the list
func (l *List) View() string {
	innerWidth := l.width - BorderWidth
	if innerWidth < 4 {
		innerWidth = 4
	}

	var b strings.Builder

	header := l.title
	if len(l.items) > 0 {
		header = fmt.Sprintf("%s (%d/%d)", l.title, l.cursor+1, len(l.items))
	}
	b.WriteString(styles.TitleStyle.Render(truncate(header, innerWidth)))
	b.WriteString("\n")

	if len(l.items) == 0 {
		if l.loading {
			b.WriteString(styles.DimStyle.Render(styles.SpinnerFrames[l.spinnerFrame] + " loading..."))
		} else {
			b.WriteString(styles.DimStyle.Render("nothing here"))
		}
	}

	end := l.offset + l.maxVisible
	if end > len(l.items) {
		end = len(l.items)
	}
	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderRow(i, innerWidth))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(l.renderFooter(innerWidth))

	border := styles.InactiveBorder
	if l.focused {
		border = styles.ActiveBorder
	}
	return border.Width(innerWidth).Height(l.height - BorderHeight).Render(b.String())
}

// renderRow truncates the plain text before any style is applied, so a
// narrow width can never cut an ANSI escape sequence in half.
func (l *List) renderRow(i, width int) string {
	entry := l.items[i]

	marker := markerFor(entry.GetItemType())
	title := entry.GetTitle()

	if i == l.cursor && l.focused {
		return styles.HighlightStyle.Render(truncate(marker+" "+title, width-2))
	}

	line := truncate(marker+" "+title, width)
	desc := entry.GetDescription()
	if desc == "" {
		return line
	}
	avail := width - lipgloss.Width(line) - 2
	if avail < 1 {
		return line
	}
	return line + "  " + styles.DimStyle.Render(truncate(desc, avail))
}

func (l *List) renderFooter(width int) string {
	switch {
	case l.loading && len(l.items) == 0:
		// The body already shows the first-page spinner
		return ""
	case l.loading:
		return styles.AccentStyle.Render(styles.SpinnerFrames[l.spinnerFrame] + " loading more")
	case l.hasMore:
		return styles.DimStyle.Render("↓ more")
	case len(l.items) > 0:
		return styles.DimStyle.Render("• end")
	default:
		return ""
	}
}

func markerFor(itemType string) string {
	switch itemType {
	case "video":
		return styles.VideoChar
	case "photo":
		return styles.PhotoChar
	case "person":
		return styles.PersonChar
	case "face":
		return styles.FaceChar
	case "duplicate-group":
		return styles.GroupChar
	default:
		return " "
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
