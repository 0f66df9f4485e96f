// Package wizard asks for the install arguments that were not supplied on
// the command line.
package wizard

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
)

var (
	// ErrCancelled is returned when the operator exits the wizard.
	ErrCancelled = errors.New("install wizard cancelled")
	errBack      = errors.New("wizard back requested")
)

type flowStep int

const (
	stepDatabase flowStep = iota
	stepStore
	stepAdmin
	stepOptional
	stepReview
)

var (
	databaseKeys = []string{options.KeyDBHost, options.KeyDBName, options.KeyDBUser, options.KeyDBPass}
	adminKeys    = []string{options.KeyAdminUsername, options.KeyAdminEmail, options.KeyAdminPassword}
	dbTypes      = []string{options.DBTypeMySQL, options.DBTypeSQLite}
)

// Complete prompts for missing arguments and returns the completed set.
// Values already in args are never asked again. Esc goes back one step and
// restores the answers of the step being left.
func Complete(args options.Arguments, ui UI) (options.Arguments, error) {
	supplied := args.Clone()
	answers := args.Clone()
	step := stepDatabase
	for {
		snapshot := answers.Clone()
		var err error
		switch step {
		case stepDatabase:
			err = promptDatabase(ui, supplied, answers)
		case stepStore:
			err = promptStore(ui, supplied, answers)
		case stepAdmin:
			err = promptKeys(ui, supplied, answers, adminKeys)
		case stepOptional:
			err = promptOptional(ui, supplied, answers)
		case stepReview:
			err = review(ui, answers)
		}

		if err == nil {
			if step == stepReview {
				return answers, nil
			}
			step++
			continue
		}
		if !errors.Is(err, errBack) {
			return nil, err
		}
		answers = snapshot
		if step == stepDatabase {
			exit, confirmErr := confirmExit(ui)
			if confirmErr != nil {
				return nil, confirmErr
			}
			if exit {
				return nil, ErrCancelled
			}
			continue
		}
		step--
	}
}

func promptDatabase(ui UI, supplied options.Arguments, answers options.Arguments) error {
	if !supplied.Has(options.KeyDBType) {
		current := answers.Get(options.KeyDBType)
		if current == "" {
			current = options.DBTypeMySQL
		}
		if err := ui.Select(messages.WizardDBTypeTitle, dbTypes, &current); err != nil {
			return err
		}
		answers.Set(options.KeyDBType, current)
	}
	return promptKeys(ui, supplied, answers, databaseKeys)
}

func promptStore(ui UI, supplied options.Arguments, answers options.Arguments) error {
	if supplied.Has(options.KeyURL) || supplied.Has(options.KeyUnsecureBaseURL) {
		return nil
	}
	return promptKeys(ui, supplied, answers, []string{options.KeyURL})
}

// promptKeys asks for each key that was not supplied. Required keys that
// already have an answer from an earlier pass are asked again with that
// answer prefilled.
func promptKeys(ui UI, supplied options.Arguments, answers options.Arguments, keys []string) error {
	for _, k := range keys {
		if supplied.Has(k) {
			continue
		}
		opt, ok := options.Lookup(k)
		if !ok {
			return fmt.Errorf(messages.WizardUnknownOptionFmt, k)
		}
		if err := promptOption(ui, opt, answers); err != nil {
			return err
		}
	}
	return nil
}

func promptOption(ui UI, opt options.Option, answers options.Arguments) error {
	value := answers.Get(opt.Key)
	if value == "" {
		value = opt.Default
	}
	prompt := Prompt{Key: opt.Key, Title: opt.Description, Description: opt.Key, Required: opt.Required}

	switch opt.Kind {
	case options.KindBool:
		checked, _ := options.ParseBool(value)
		if err := ui.Confirm(opt.Description, &checked); err != nil {
			return err
		}
		value = "no"
		if checked {
			value = "yes"
		}
	case options.KindSecret:
		if err := ui.SecretInput(prompt, &value); err != nil {
			return err
		}
	default:
		if err := ui.Input(prompt, &value); err != nil {
			return err
		}
	}

	value = strings.TrimSpace(value)
	if value == "" {
		delete(answers, opt.Key)
		return nil
	}
	answers.Set(opt.Key, value)
	return nil
}

// optionalKeys lists catalog options the earlier steps do not cover and the
// operator has not supplied.
func optionalKeys(supplied options.Arguments) []string {
	covered := slices.Concat(databaseKeys, adminKeys, []string{options.KeyDBType, options.KeyURL})
	var out []string
	for _, opt := range options.Catalog() {
		if opt.Required || supplied.Has(opt.Key) || slices.Contains(covered, opt.Key) {
			continue
		}
		out = append(out, opt.Key)
	}
	return out
}

func promptOptional(ui UI, supplied options.Arguments, answers options.Arguments) error {
	available := optionalKeys(supplied)
	if len(available) == 0 {
		return nil
	}
	var chosen []string
	for _, k := range available {
		if answers.Has(k) {
			chosen = append(chosen, k)
		}
	}
	if err := ui.MultiSelect(messages.WizardOptionalTitle, available, &chosen); err != nil {
		return err
	}
	return promptKeys(ui, supplied, answers, chosen)
}

func review(ui UI, answers options.Arguments) error {
	if err := ui.Note(messages.WizardReviewTitle, Summary(answers)); err != nil {
		return err
	}
	proceed := true
	if err := ui.Confirm(messages.WizardConfirmInstallPrompt, &proceed); err != nil {
		return err
	}
	if !proceed {
		return ErrCancelled
	}
	return nil
}

func confirmExit(ui UI) (bool, error) {
	exit := true
	if err := ui.Confirm(messages.WizardFirstStepEscapeExitPrompt, &exit); err != nil {
		if errors.Is(err, errBack) {
			return false, nil
		}
		return false, err
	}
	return exit, nil
}

// Summary lists the arguments in catalog order with secrets masked.
func Summary(args options.Arguments) string {
	var b strings.Builder
	for _, opt := range options.Catalog() {
		value := args.Get(opt.Key)
		switch {
		case value == "" && opt.Key == options.KeyEncryptionKey:
			value = messages.WizardGeneratedKey
		case value == "" && !opt.Required:
			continue
		case value == "":
			value = messages.WizardNotSet
		case opt.Kind == options.KindSecret:
			value = messages.WizardSecretMask
		}
		_, _ = fmt.Fprintf(&b, messages.WizardSummaryLineFmt+"\n", opt.Key, value)
	}
	return b.String()
}
