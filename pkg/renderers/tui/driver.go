package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-crmforms/pkg/model"
)

// InputConfig describes a single line answer.
type InputConfig struct {
	Message string
	Default string
	Help    string
	// Format is the expected shape of the answer, such as a phone mask or
	// the currency of a money field. It is shown beside the message.
	Format string
	// Suggest completes partial answers on tab.
	Suggest func(partial string) []string
}

// ConfirmConfig describes a yes/no answer.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig describes a choice among Options.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	// Defaults are the preselected positions of a MultiSelect.
	Defaults []int
	Help     string
	PageSize int
}

// TextAreaConfig describes a multi-line answer.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver asks the questions of a fill session. Select answers with a
// position in Options, MultiSelect with the chosen positions in order.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// surveyDriver asks through survey on a terminal. Typing in a choice list
// filters it ignoring case and accents, as the browser dropdown does.
type surveyDriver struct {
	in   terminal.FileReader
	out  terminal.FileWriter
	errs io.Writer
}

// NewSurveyDriver returns a driver bound to the process terminal.
func NewSurveyDriver() PromptDriver {
	return &surveyDriver{in: os.Stdin, out: os.Stdout, errs: os.Stderr}
}

func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, response any, opts ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = append(opts, survey.WithStdio(d.in, d.out, d.errs))
	err := survey.AskOne(prompt, response, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	prompt := &survey.Input{
		Message: withFormat(cfg.Message, cfg.Format),
		Default: cfg.Default,
		Help:    cfg.Help,
		Suggest: cfg.Suggest,
	}
	var answer string
	err := d.ask(ctx, prompt, &answer)
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

// Select and MultiSelect answer with survey.OptionAnswer so positions
// survive repeated labels.
func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: cfg.PageSize,
		Filter:   foldedFilter,
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.DefaultIndex
	}
	var answer survey.OptionAnswer
	if err := d.ask(ctx, prompt, &answer); err != nil {
		return -1, err
	}
	return answer.Index, nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: cfg.PageSize,
		Filter:   foldedFilter,
	}
	if len(cfg.Defaults) > 0 {
		prompt.Default = cfg.Defaults
	}
	var answers []survey.OptionAnswer
	if err := d.ask(ctx, prompt, &answers); err != nil {
		return nil, err
	}
	chosen := make([]int, 0, len(answers))
	for _, answer := range answers {
		chosen = append(chosen, answer.Index)
	}
	return chosen, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var answer string
	err := d.ask(ctx, &survey.Multiline{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func foldedFilter(filter, option string, _ int) bool {
	return model.MatchesSearch(option, filter)
}

func withFormat(message, format string) string {
	if format = strings.TrimSpace(format); format == "" {
		return message
	}
	return message + " [" + format + "]"
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

// positions maps labels to their positions in options.
func positions(options, labels []string) []int {
	out := make([]int, 0, len(labels))
	for i, option := range options {
		for _, label := range labels {
			if option == label {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// labelsAt is the inverse of positions; out of range positions are skipped.
func labelsAt(options []string, picked []int) []string {
	out := make([]string, 0, len(picked))
	for _, i := range picked {
		if i >= 0 && i < len(options) {
			out = append(out, options[i])
		}
	}
	return out
}
