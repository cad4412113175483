// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bureau-foundation/kanban/lib/tui"
)

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func descriptionParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// renderMarkdown renders a task description for the terminal, wrapped
// to width. Soft line breaks become spaces so descriptions typed in a
// browser textarea reflow.
func renderMarkdown(input string, theme tui.Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := descriptionParser().Parser().Parse(text.NewReader(source))

	// The board always draws into a terminal, so the profile is fixed
	// rather than detected; detection yields plain text without a TTY.
	styles := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	styles.SetColorProfile(termenv.ANSI256)

	renderer := &descriptionRenderer{
		source: source,
		theme:  theme,
		width:  max(width, 10),
		styles: styles,
	}
	_ = ast.Walk(document, renderer.walk)
	renderer.flush()
	return strings.TrimRight(strings.Join(renderer.lines, "\n"), "\n ")
}

type markdownList struct {
	ordered bool
	next    int
}

// descriptionRenderer collects inline content per block and wraps it
// when the block closes.
type descriptionRenderer struct {
	source []byte
	theme  tui.Theme
	width  int
	styles *lipgloss.Renderer

	lines  []string
	inline strings.Builder

	indent  string
	indents []string
	bullet  string
	lists   []markdownList
	bold    int
	italic  int
	strike  int
	heading int
}

func (r *descriptionRenderer) style() lipgloss.Style {
	style := r.styles.NewStyle().Foreground(r.theme.NormalText)
	if r.heading > 0 {
		style = style.Bold(true)
		if r.heading <= 2 {
			style = style.Foreground(r.theme.HeaderForeground)
		}
	}
	if r.bold > 0 {
		style = style.Bold(true)
	}
	if r.italic > 0 {
		style = style.Italic(true)
	}
	if r.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style
}

func (r *descriptionRenderer) blank() {
	if len(r.lines) > 0 && r.lines[len(r.lines)-1] != "" {
		r.lines = append(r.lines, "")
	}
}

// flush wraps the pending inline content and emits it with the
// current indent, the first line taking the pending bullet.
func (r *descriptionRenderer) flush() {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return
	}
	wrapped := ansi.Wrap(content, max(r.width-ansi.StringWidth(r.indent), 10), " -")
	for index, line := range strings.Split(wrapped, "\n") {
		prefix := r.indent
		if index == 0 && r.bullet != "" {
			prefix, r.bullet = r.bullet, ""
		}
		r.lines = append(r.lines, prefix+line)
	}
}

func (r *descriptionRenderer) segmentText(node ast.Node) string {
	var builder strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		builder.Write(segment.Value(r.source))
	}
	return builder.String()
}

func (r *descriptionRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if !entering {
			r.flush()
			if _, tight := node.(*ast.TextBlock); !tight {
				r.blank()
			}
		}

	case *ast.Heading:
		if entering {
			r.blank()
			r.heading = node.Level
		} else {
			r.flush()
			r.heading = 0
			r.blank()
		}

	case *ast.FencedCodeBlock:
		if entering {
			r.code(r.segmentText(node), string(node.Language(r.source)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			r.code(r.segmentText(node), "")
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		if entering {
			r.indent += "│ "
		} else {
			r.indent = strings.TrimSuffix(r.indent, "│ ")
			r.blank()
		}

	case *ast.List:
		if entering {
			r.lists = append(r.lists, markdownList{ordered: node.IsOrdered(), next: node.Start})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			if len(r.lists) == 0 {
				r.blank()
			}
		}

	case *ast.ListItem:
		if len(r.lists) == 0 {
			break
		}
		list := &r.lists[len(r.lists)-1]
		if entering {
			marker := "- "
			if list.ordered {
				marker = fmt.Sprintf("%d. ", list.next)
				list.next++
			}
			r.indents = append(r.indents, r.indent)
			r.bullet = r.indent + marker
			r.indent += strings.Repeat(" ", len(marker))
		} else {
			r.flush()
			r.indent = r.indents[len(r.indents)-1]
			r.indents = r.indents[:len(r.indents)-1]
		}

	case *ast.ThematicBreak:
		if entering {
			r.blank()
			rule := r.styles.NewStyle().Foreground(r.theme.BorderColor).Render(strings.Repeat("─", r.width))
			r.lines = append(r.lines, rule, "")
		}

	case *ast.Text:
		if entering {
			r.inline.WriteString(r.style().Render(string(node.Segment.Value(r.source))))
			switch {
			case node.HardLineBreak():
				r.inline.WriteString("\n")
			case node.SoftLineBreak():
				r.inline.WriteString(" ")
			}
		}

	case *ast.String:
		if entering {
			r.inline.WriteString(r.style().Render(string(node.Value)))
		}

	case *ast.Emphasis:
		counter := &r.italic
		if node.Level >= 2 {
			counter = &r.bold
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(r.source))
				}
			}
			r.inline.WriteString(r.styles.NewStyle().Foreground(r.theme.FaintText).Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if !entering && len(node.Destination) > 0 {
			faint := r.styles.NewStyle().Foreground(r.theme.FaintText)
			r.inline.WriteString(" " + faint.Render("("+string(node.Destination)+")"))
		}

	case *ast.AutoLink:
		if entering {
			faint := r.styles.NewStyle().Foreground(r.theme.FaintText).Underline(true)
			r.inline.WriteString(faint.Render(string(node.URL(r.source))))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Image:
		if entering {
			faint := r.styles.NewStyle().Foreground(r.theme.FaintText)
			r.inline.WriteString(faint.Render("[image: " + string(node.Destination) + "]"))
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML, *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil

	case *extast.Strikethrough:
		if entering {
			r.strike++
		} else {
			r.strike--
		}

	case *extast.TaskCheckBox:
		if entering {
			if node.IsChecked {
				r.inline.WriteString(r.styles.NewStyle().Foreground(r.theme.ToneCalm).Render("[x]") + " ")
			} else {
				r.inline.WriteString(r.style().Render("[ ] "))
			}
		}

	case *extast.TableCell:
		if !entering && node.NextSibling() != nil {
			r.inline.WriteString(r.styles.NewStyle().Foreground(r.theme.BorderColor).Render(" │ "))
		}

	case *extast.TableHeader, *extast.TableRow:
		if entering {
			r.bold += boolToInt(node.Kind() == extast.KindTableHeader)
		} else {
			r.flush()
			r.bold -= boolToInt(node.Kind() == extast.KindTableHeader)
		}

	case *extast.Table:
		if !entering {
			r.blank()
		}
	}
	return ast.WalkContinue, nil
}

// code emits a code block, highlighted with chroma when the language
// is known.
func (r *descriptionRenderer) code(source, language string) {
	r.flush()
	r.blank()
	body := strings.TrimRight(source, "\n")
	highlighted := ""
	if language != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, body, language, "terminal256", "monokai"); err == nil {
			highlighted = buffer.String()
		}
	}
	if highlighted == "" {
		highlighted = r.styles.NewStyle().Foreground(r.theme.FaintText).Render(body)
	}
	for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
		r.lines = append(r.lines, r.indent+"  "+line)
	}
	r.lines = append(r.lines, "")
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
