package main

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("prompt aborted")

// prompter asks for one value at a time. Each validate func returns the
// message to show, or nil to accept the answer.
type prompter interface {
	Input(message, help, def string, validate func(string) error) (string, error)
	Password(message, help string, validate func(string) error) (string, error)
	Multiline(message, help, def string, validate func(string) error) (string, error)
	Confirm(message, help string, def bool, validate func(bool) error) (bool, error)
	Select(message, help string, options []string, def int) (int, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message, help, def string, validate func(string) error) (string, error) {
	var out string
	prompt := &survey.Input{Message: message, Help: help, Default: def}
	err := survey.AskOne(prompt, &out, stringValidator(validate)...)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Password(message, help string, validate func(string) error) (string, error) {
	var out string
	prompt := &survey.Password{Message: message, Help: help}
	err := survey.AskOne(prompt, &out, stringValidator(validate)...)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Multiline(message, help, def string, validate func(string) error) (string, error) {
	var out string
	prompt := &survey.Multiline{Message: message, Help: help, Default: def}
	err := survey.AskOne(prompt, &out, stringValidator(validate)...)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Confirm(message, help string, def bool, validate func(bool) error) (bool, error) {
	var out bool
	prompt := &survey.Confirm{Message: message, Help: help, Default: def}
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			b, _ := ans.(bool)
			return validate(b)
		}))
	}
	err := survey.AskOne(prompt, &out, opts...)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Select(message, help string, options []string, def int) (int, error) {
	var out int
	prompt := &survey.Select{Message: message, Help: help, Options: options}
	if def >= 0 && def < len(options) {
		prompt.Default = options[def]
	}
	err := survey.AskOne(prompt, &out)
	return out, translateSurveyErr(err)
}

func stringValidator(validate func(string) error) []survey.AskOpt {
	if validate == nil {
		return nil
	}
	return []survey.AskOpt{survey.WithValidator(func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("unexpected answer type %T", ans)
		}
		return validate(s)
	})}
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
