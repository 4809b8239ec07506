package prompt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/submission"
)

// Fill walks the descriptor's fields in order and collects values into the
// form state. Incremental list fields loop one add action at a time; bulk
// fields take one free-text block that stays raw until normalize time.
func Fill(ctx context.Context, driver Driver, state *submission.State) error {
	desc := state.Descriptor()
	for _, field := range desc.Fields {
		if err := fillField(ctx, driver, state, field); err != nil {
			return err
		}
	}
	return nil
}

func fillField(ctx context.Context, driver Driver, state *submission.State, field feature.FieldSpec) error {
	label := field.DisplayLabel()
	message := label
	if field.Required {
		message += " (required)"
	}

	switch field.Kind {
	case feature.FieldKindText:
		value, err := driver.Input(ctx, InputConfig{
			Message:     message,
			Default:     state.Text(field.Name),
			Help:        field.Help,
			Placeholder: field.Placeholder,
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(value) == "" && !field.Required {
			return nil
		}
		return state.Set(field.Name, value)

	case feature.FieldKindEnum:
		defaultIndex := indexOf(field.Enum, state.Text(field.Name))
		choice, err := driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      field.Enum,
			DefaultIndex: defaultIndex,
			Help:         field.Help,
		})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(field.Enum) {
			return nil
		}
		return state.Set(field.Name, field.Enum[choice])

	case feature.FieldKindNumber:
		raw, err := driver.Input(ctx, InputConfig{
			Message: message,
			Default: numberDefault(state.Number(field.Name)),
			Help:    field.Help,
		})
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil
		}
		value, err := strconv.Atoi(trimmed)
		if err != nil {
			return fmt.Errorf("prompt: %s: %q is not a number", label, trimmed)
		}
		return state.Set(field.Name, value)

	case feature.FieldKindBoolean:
		value, err := driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: state.Bool(field.Name),
			Help:    field.Help,
		})
		if err != nil {
			return err
		}
		return state.Set(field.Name, value)

	case feature.FieldKindList:
		if field.Mode == feature.ListModeBulk {
			raw, err := driver.TextArea(ctx, TextAreaConfig{
				Message: message,
				Default: state.Text(field.Name),
				Help:    field.Help,
			})
			if err != nil {
				return err
			}
			if strings.TrimSpace(raw) == "" && !field.Required {
				return nil
			}
			return state.Set(field.Name, raw)
		}
		return fillIncremental(ctx, driver, state, field, message)

	case feature.FieldKindFile:
		return fillFile(ctx, driver, state, field, message)
	}
	return nil
}

// fillIncremental keeps prompting until the user declines to add more,
// committing each buffer through the same add action the form UI exposes.
func fillIncremental(ctx context.Context, driver Driver, state *submission.State, field feature.FieldSpec, message string) error {
	for {
		if committed := state.List(field.Name); len(committed) > 0 {
			if err := driver.Info(ctx, fmt.Sprintf("%s: %s", field.DisplayLabel(), strings.Join(committed, ", "))); err != nil {
				return err
			}
		}
		raw, err := driver.Input(ctx, InputConfig{
			Message: message + " (comma separated, empty to finish)",
			Help:    field.Help,
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		if err := state.SetBuffer(field.Name, raw); err != nil {
			return err
		}
		if err := state.AppendPending(field.Name); err != nil {
			return err
		}
	}
}

func fillFile(ctx context.Context, driver Driver, state *submission.State, field feature.FieldSpec, message string) error {
	path, err := driver.Input(ctx, InputConfig{
		Message: message + " (path, empty to skip)",
		Help:    field.Help,
	})
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	content, err := os.ReadFile(trimmed)
	if err != nil {
		return fmt.Errorf("prompt: read %s: %w", field.DisplayLabel(), err)
	}
	state.Attach(&submission.File{Name: filepath.Base(trimmed), Content: content})
	return nil
}

func numberDefault(value int) string {
	if value == 0 {
		return ""
	}
	return strconv.Itoa(value)
}
