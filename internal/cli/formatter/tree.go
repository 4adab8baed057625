package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	ID    string
	Title string
	// Tag is drawn dimmed between the glyph and the title.
	Tag   string
	Glyph string
	Style lipgloss.Style
	Level int
	// Open records, for each ancestor level above this row, whether that
	// ancestor still has siblings below it.
	Open   []bool
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
	ellipsis   = "…"
)

func (it TreeItem) prefix() string {
	if it.Level == 0 {
		return ""
	}
	var b strings.Builder
	for i := 1; i < it.Level; i++ {
		if i-1 < len(it.Open) && !it.Open[i-1] {
			b.WriteString(treeBlank)
		} else {
			b.WriteString(treePipe)
		}
	}
	if it.IsLast {
		b.WriteString(treeCorner)
	} else {
		b.WriteString(treeBranch)
	}
	return b.String()
}

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors. Detail badges are right-aligned. When maxWidth is positive,
// titles are truncated by display width so no line exceeds it.
func RenderTree(items []TreeItem, maxWidth int) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		prefix := item.prefix()
		badge := ""
		if item.Detail != "" {
			badge = "[ " + item.Detail + " ]"
		}

		title := item.Title
		if maxWidth > 0 {
			avail := maxWidth - runewidth.StringWidth(prefix+item.Glyph+item.Tag)
			if badge != "" {
				avail -= runewidth.StringWidth(badge) + 2
			}
			if avail < 1 {
				avail = 1
			}
			title = runewidth.Truncate(title, avail, ellipsis)
		}

		content := StyleDim.Render(prefix) + item.Style.Render(item.Glyph) + StyleDim.Render(item.Tag) + item.Style.Render(title)
		lines[idx].content = content
		if badge != "" {
			lines[idx].badge = StyleBlue.Render(badge)
		}
		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned badges.
	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
