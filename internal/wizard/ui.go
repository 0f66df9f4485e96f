package wizard

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/terminal"
)

// Prompt describes a single text question.
type Prompt struct {
	Key         string
	Title       string
	Description string
	Required    bool
}

// UI is the set of questions the wizard can ask.
type UI interface {
	Select(title string, options []string, current *string) error
	MultiSelect(title string, options []string, selected *[]string) error
	Confirm(title string, value *bool) error
	Input(p Prompt, value *string) error
	SecretInput(p Prompt, value *string) error
	Note(title string, body string) error
}

// HuhUI renders prompts with charmbracelet/huh on stderr.
type HuhUI struct {
	isTerminal func() bool
	keys       *huh.KeyMap
	// interrupted is set while a form runs when the operator pressed Ctrl+C.
	interrupted bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI returns a HuhUI gated on terminal.IsInteractive.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: terminal.IsInteractive, keys: newKeyMap()}
}

func (ui *HuhUI) ensureInteractive() error {
	isTerminal := ui.isTerminal
	if isTerminal == nil {
		isTerminal = terminal.IsInteractive
	}
	if !isTerminal() {
		return errors.New(messages.WizardRequiresTerminal)
	}
	return nil
}

func (ui *HuhUI) keyMap() *huh.KeyMap {
	if ui.keys == nil {
		ui.keys = newKeyMap()
	}
	return ui.keys
}

// newKeyMap makes Esc and Ctrl+C both quit the form. The Prev and Next
// bindings of every field type are repurposed to show them as "back" and
// "exit" in the help line.
func newKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))

	back := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	exit := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "exit"))
	for _, hints := range [][2]*key.Binding{
		{&km.Select.Prev, &km.Select.Next},
		{&km.MultiSelect.Prev, &km.MultiSelect.Next},
		{&km.Confirm.Prev, &km.Confirm.Next},
		{&km.Input.Prev, &km.Input.Next},
		{&km.Note.Prev, &km.Note.Next},
	} {
		*hints[0], *hints[1] = back, exit
	}

	for _, b := range []*key.Binding{&km.Select.Filter, &km.Select.SetFilter, &km.Select.ClearFilter} {
		b.SetEnabled(false)
	}
	return km
}

// pinnedField is the only field of a wizard form. huh switches off Prev on a
// first field and Next on a last one; pinnedField turns them back on so the
// hints stay visible.
type pinnedField struct {
	huh.Field
	keys *huh.KeyMap
}

func pin(field huh.Field, keys *huh.KeyMap) huh.Field {
	return &pinnedField{Field: field, keys: keys}
}

func (f *pinnedField) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := f.Field.Update(msg)
	if field, ok := model.(huh.Field); ok {
		f.Field = field
	}
	return f, cmd
}

func (f *pinnedField) WithPosition(p huh.FieldPosition) huh.Field {
	f.Field.WithPosition(p)
	f.WithKeyMap(f.keys)
	return f
}

// interceptKeys notes Ctrl+C presses and turns an interrupt into a quit so
// the renderer clears the form.
func (ui *HuhUI) interceptKeys(_ tea.Model, msg tea.Msg) tea.Msg {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if m.Type == tea.KeyCtrlC {
			ui.interrupted = true
		}
	case tea.InterruptMsg:
		return tea.QuitMsg{}
	}
	return msg
}

// runForm shows field alone. Esc yields errBack and Ctrl+C ErrCancelled.
func (ui *HuhUI) runForm(field huh.Field) error {
	if err := ui.ensureInteractive(); err != nil {
		return err
	}
	keys := ui.keyMap()
	form := huh.NewForm(huh.NewGroup(pin(field, keys))).
		WithKeyMap(keys).
		WithProgramOptions(
			tea.WithOutput(os.Stderr),
			tea.WithReportFocus(),
			tea.WithFilter(ui.interceptKeys),
		)

	ui.interrupted = false
	err := runFormFunc(form)
	if !errors.Is(err, huh.ErrUserAborted) {
		return err
	}
	if ui.interrupted {
		return ErrCancelled
	}
	return errBack
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(title string, options []string, current *string) error {
	return ui.runForm(huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(current))
}

// MultiSelect renders a multi-choice prompt.
func (ui *HuhUI) MultiSelect(title string, options []string, selected *[]string) error {
	return ui.runForm(huh.NewMultiSelect[string]().
		Title(title).
		Filterable(false).
		Options(huh.NewOptions(options...)...).
		Value(selected))
}

// Confirm renders a yes/no prompt.
func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.runForm(huh.NewConfirm().Title(title).Value(value))
}

// Input renders a text prompt.
func (ui *HuhUI) Input(p Prompt, value *string) error {
	return ui.runForm(textInput(p, value))
}

// SecretInput renders a masked text prompt.
func (ui *HuhUI) SecretInput(p Prompt, value *string) error {
	return ui.runForm(textInput(p, value).EchoMode(huh.EchoModePassword))
}

// Note renders an informational screen.
func (ui *HuhUI) Note(title string, body string) error {
	return ui.runForm(huh.NewNote().Title(title).Description(body))
}

func textInput(p Prompt, value *string) *huh.Input {
	return huh.NewInput().
		Title(p.Title).
		Description(p.Description).
		Validate(requiredValidator(p)).
		Value(value)
}

func requiredValidator(p Prompt) func(string) error {
	return func(s string) error {
		if p.Required && strings.TrimSpace(s) == "" {
			return fmt.Errorf(messages.WizardValueRequiredFmt, p.Key)
		}
		return nil
	}
}
