package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/mage-console/internal/messages"
)

func stubRunForm(t *testing.T, fn func(form *huh.Form) error) {
	t.Helper()
	orig := runFormFunc
	t.Cleanup(func() { runFormFunc = orig })
	runFormFunc = fn
}

func TestHuhUIRequiresTerminal(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return false }}
	var s string
	var b bool
	var many []string

	for name, call := range map[string]func() error{
		"select":      func() error { return ui.Select("t", []string{"a"}, &s) },
		"multiselect": func() error { return ui.MultiSelect("t", []string{"a"}, &many) },
		"confirm":     func() error { return ui.Confirm("t", &b) },
		"input":       func() error { return ui.Input(Prompt{Key: "db_host"}, &s) },
		"secret":      func() error { return ui.SecretInput(Prompt{Key: "db_pass"}, &s) },
		"note":        func() error { return ui.Note("t", "body") },
	} {
		err := call()
		require.Error(t, err, name)
		assert.Equal(t, messages.WizardRequiresTerminal, err.Error(), name)
	}
}

func TestHuhUIRunsForm(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	called := false
	stubRunForm(t, func(form *huh.Form) error {
		assert.NotNil(t, form)
		called = true
		return nil
	})

	var s string
	require.NoError(t, ui.Input(Prompt{Key: "db_host", Title: "Database host"}, &s))
	assert.True(t, called)
}

func TestHuhUIAbortMapping(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	var s string

	stubRunForm(t, func(*huh.Form) error {
		ui.interrupted = true
		return huh.ErrUserAborted
	})
	assert.ErrorIs(t, ui.Input(Prompt{}, &s), ErrCancelled)

	// The flag resets before each form.
	stubRunForm(t, func(*huh.Form) error { return huh.ErrUserAborted })
	assert.ErrorIs(t, ui.Input(Prompt{}, &s), errBack)
}

func TestInterceptKeys(t *testing.T) {
	ui := &HuhUI{}

	assert.IsType(t, tea.WindowSizeMsg{}, ui.interceptKeys(nil, tea.WindowSizeMsg{Width: 80, Height: 24}))
	assert.IsType(t, tea.KeyMsg{}, ui.interceptKeys(nil, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, ui.interrupted)

	assert.IsType(t, tea.QuitMsg{}, ui.interceptKeys(nil, tea.InterruptMsg{}))
	assert.False(t, ui.interrupted, "an interrupt alone does not mean Ctrl+C")

	assert.IsType(t, tea.KeyMsg{}, ui.interceptKeys(nil, tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, ui.interrupted)
}

func TestRequiredValidator(t *testing.T) {
	required := requiredValidator(Prompt{Key: "admin_email", Required: true})
	assert.EqualError(t, required("  "), "admin_email is required")
	assert.NoError(t, required("a@b.com"))

	optional := requiredValidator(Prompt{Key: "db_prefix"})
	assert.NoError(t, optional(""))
}

func TestPinnedFieldKeepsHints(t *testing.T) {
	keys := newKeyMap()
	form := huh.NewForm(huh.NewGroup(pin(huh.NewMultiSelect[string]().
		Title(messages.WizardOptionalTitle).
		Filterable(false).
		Options(huh.NewOptions("locale", "timezone")...), keys))).
		WithKeyMap(keys)

	var hints []string
	for _, b := range form.KeyBinds() {
		if b.Enabled() {
			hints = append(hints, b.Help().Key+" "+b.Help().Desc)
		}
	}
	assert.Contains(t, hints, "esc back")
	assert.Contains(t, hints, "ctrl+c exit")
}

func TestNewKeyMapDisablesSelectFilter(t *testing.T) {
	keys := newKeyMap()
	assert.False(t, keys.Select.Filter.Enabled())
	assert.False(t, keys.Select.SetFilter.Enabled())
	assert.Equal(t, []string{"ctrl+c", "esc"}, keys.Quit.Keys())
	assert.Equal(t, "back", keys.Input.Prev.Help().Desc)
	assert.Equal(t, "exit", keys.Note.Next.Help().Desc)
}
