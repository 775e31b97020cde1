package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user for input that is not given on the command line.
type Prompter interface {
	Confirm(title, description string) (bool, error)
	Password(title string) (string, error)
}

// HuhPrompter renders prompts with huh in the terminal.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, ErrAborted
	}
	return confirmed, err
}

func (HuhPrompter) Password(title string) (string, error) {
	var password string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}).
				Value(&password),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", ErrAborted
	}
	return password, err
}
