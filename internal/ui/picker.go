// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package ui implements the interactive address picker of the command line client.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wneessen/rentalhub/internal/geocode"
	"github.com/wneessen/rentalhub/internal/lookup"
)

// ErrAddressRequired is shown when enter is pressed on an empty required input.
var ErrAddressRequired = errors.New("please select an address from the list")

type (
	updatedMsg struct{}
	closedMsg  struct{}
)

type styles struct {
	Title    lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Hint     lipgloss.Style
	Error    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Selected: lipgloss.NewStyle().Bold(true),
		Item:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Hint:     lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Picker is a bubbletea model around a lookup.Lookup. Every keystroke is handed to the lookup,
// the suggestion list is redrawn whenever the lookup signals an update.
type Picker struct {
	lookup        *lookup.Lookup
	input         textinput.Model
	suggestionTpl *template.Template
	styles        styles

	suggestions []geocode.Suggestion
	loading     bool
	cursor      int
	address     *geocode.Address
	err         error
	done        bool
}

// NewPicker returns a focused picker. The suggestion template renders each list entry, a nil
// template shows the suggestion label.
func NewPicker(l *lookup.Lookup, suggestionTpl *template.Template) Picker {
	input := textinput.New()
	input.Placeholder = "Start typing an address"
	input.Prompt = "> "
	input.SetValue(l.Value())
	input.Focus()

	return Picker{
		lookup:        l,
		input:         input,
		suggestionTpl: suggestionTpl,
		styles:        defaultStyles(),
	}
}

func (p Picker) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, p.waitForUpdate())
}

// waitForUpdate turns the next lookup notification into a message.
func (p Picker) waitForUpdate() tea.Cmd {
	updated := p.lookup.Updated()
	return func() tea.Msg {
		if _, ok := <-updated; !ok {
			return closedMsg{}
		}
		return updatedMsg{}
	}
}

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updatedMsg:
		p.suggestions = p.lookup.Suggestions()
		p.loading = p.lookup.Loading()
		p.cursor = min(p.cursor, max(len(p.suggestions)-1, 0))
		return p, p.waitForUpdate()
	case closedMsg:
		return p, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.lookup.Close()
			p.done = true
			return p, tea.Quit
		case tea.KeyUp:
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case tea.KeyDown:
			if p.cursor < len(p.suggestions)-1 {
				p.cursor++
			}
			return p, nil
		case tea.KeyEnter:
			return p.choose()
		}
	}

	value := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != value {
		p.err = nil
		p.cursor = 0
		p.lookup.Input(p.input.Value())
	}
	return p, cmd
}

// choose selects the suggestion under the cursor. Without suggestions the free text is accepted
// unless the input is required.
func (p Picker) choose() (tea.Model, tea.Cmd) {
	if len(p.suggestions) == 0 {
		if p.lookup.Required() {
			p.err = ErrAddressRequired
			return p, nil
		}
		p.lookup.Close()
		p.done = true
		return p, tea.Quit
	}

	// The lookup may have replaced its list since the last redraw. Show the current list instead of
	// selecting an entry that is not on screen.
	if current := p.lookup.Suggestions(); !sameSuggestions(current, p.suggestions) {
		p.suggestions = current
		p.cursor = min(p.cursor, max(len(current)-1, 0))
		return p, nil
	}

	address, err := p.lookup.Select(p.cursor)
	if err != nil {
		p.err = err
		return p, nil
	}
	p.address = &address
	p.suggestions = nil
	p.input.SetValue(p.lookup.Value())
	p.lookup.Close()
	p.done = true
	return p, tea.Quit
}

func (p Picker) View() string {
	if p.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Property address"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")

	switch {
	case p.loading:
		b.WriteString(p.styles.Hint.Render("  searching..."))
		b.WriteString("\n")
	case len(p.suggestions) == 0 && strings.TrimSpace(p.input.Value()) != "":
		b.WriteString(p.styles.Hint.Render("  no suggestions"))
		b.WriteString("\n")
	}
	for i, suggestion := range p.suggestions {
		label := p.renderSuggestion(suggestion)
		if i == p.cursor {
			b.WriteString(p.styles.Cursor.Render("> ") + p.styles.Selected.Render(label))
		} else {
			b.WriteString("  " + p.styles.Item.Render(label))
		}
		b.WriteString("\n")
	}
	if p.err != nil {
		b.WriteString(p.styles.Error.Render(p.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(p.styles.Hint.Render("up/down: move  enter: select  esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

func sameSuggestions(a, b []geocode.Suggestion) bool {
	return slices.EqualFunc(a, b, func(x, y geocode.Suggestion) bool {
		return x.ID == y.ID
	})
}

// Address returns the selected address, if any.
func (p Picker) Address() (geocode.Address, bool) {
	if p.address == nil {
		return geocode.Address{}, false
	}
	return *p.address, true
}

// Value returns the text of the input.
func (p Picker) Value() string {
	return p.input.Value()
}

func (p Picker) renderSuggestion(suggestion geocode.Suggestion) string {
	if p.suggestionTpl == nil {
		return suggestion.Label
	}
	var b strings.Builder
	if err := p.suggestionTpl.Execute(&b, suggestion); err != nil {
		return suggestion.Label
	}
	return strings.TrimRight(b.String(), "\n")
}

// Run shows the picker on the given terminal streams until an address is selected or the user
// cancels. The lookup is closed when Run returns.
func Run(ctx context.Context, l *lookup.Lookup, suggestionTpl *template.Template, input io.Reader,
	output io.Writer,
) (Picker, error) {
	defer l.Close()

	program := tea.NewProgram(NewPicker(l, suggestionTpl), tea.WithContext(ctx), tea.WithInput(input),
		tea.WithOutput(output))
	model, err := program.Run()
	if err != nil {
		return Picker{}, fmt.Errorf("failed to run address picker: %w", err)
	}
	picker, ok := model.(Picker)
	if !ok {
		return Picker{}, fmt.Errorf("unexpected model type %T", model)
	}
	return picker, nil
}
