// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInputCancelled is returned by ReadSecret when the prompt is left with esc or ctrl+c.
var ErrInputCancelled = errors.New("input cancelled")

const maskCharacter = '•'

// SecretPrompt reads a single line without showing what is typed.
type SecretPrompt struct {
	input     textinput.Model
	submitted bool
	cancelled bool
}

func NewSecretPrompt(prompt string) SecretPrompt {
	input := textinput.New()
	input.Prompt = prompt
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = maskCharacter
	input.Focus()
	return SecretPrompt{input: input}
}

func (s SecretPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (s SecretPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			s.submitted = true
			return s, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			s.cancelled = true
			return s, tea.Quit
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s SecretPrompt) View() string {
	if s.submitted || s.cancelled {
		return ""
	}
	return s.input.View() + "\n"
}

// Value returns the entered secret.
func (s SecretPrompt) Value() string {
	return s.input.Value()
}

// ReadSecret shows a masked prompt on the given terminal streams and returns the entered line.
func ReadSecret(ctx context.Context, prompt string, input io.Reader, output io.Writer) (string, error) {
	program := tea.NewProgram(NewSecretPrompt(prompt), tea.WithContext(ctx), tea.WithInput(input),
		tea.WithOutput(output))
	model, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run secret prompt: %w", err)
	}
	secret, ok := model.(SecretPrompt)
	if !ok {
		return "", fmt.Errorf("unexpected model type %T", model)
	}
	if secret.cancelled {
		return "", ErrInputCancelled
	}
	return secret.Value(), nil
}
