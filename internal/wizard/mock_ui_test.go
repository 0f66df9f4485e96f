package wizard

// scriptedUI answers prompts through per-method hooks and records every
// title it was asked, in order. A nil hook accepts the prefilled value.
type scriptedUI struct {
	SelectFunc      func(title string, options []string, current *string) error
	MultiSelectFunc func(title string, options []string, selected *[]string) error
	ConfirmFunc     func(title string, value *bool) error
	InputFunc       func(p Prompt, value *string) error
	SecretFunc      func(p Prompt, value *string) error
	NoteFunc        func(title string, body string) error

	asked []string
}

func (m *scriptedUI) Select(title string, options []string, current *string) error {
	m.asked = append(m.asked, title)
	if m.SelectFunc == nil {
		return nil
	}
	return m.SelectFunc(title, options, current)
}

func (m *scriptedUI) MultiSelect(title string, options []string, selected *[]string) error {
	m.asked = append(m.asked, title)
	if m.MultiSelectFunc == nil {
		return nil
	}
	return m.MultiSelectFunc(title, options, selected)
}

func (m *scriptedUI) Confirm(title string, value *bool) error {
	m.asked = append(m.asked, title)
	if m.ConfirmFunc == nil {
		return nil
	}
	return m.ConfirmFunc(title, value)
}

func (m *scriptedUI) Input(p Prompt, value *string) error {
	m.asked = append(m.asked, p.Key)
	if m.InputFunc == nil {
		return nil
	}
	return m.InputFunc(p, value)
}

func (m *scriptedUI) SecretInput(p Prompt, value *string) error {
	m.asked = append(m.asked, p.Key)
	if m.SecretFunc == nil {
		return nil
	}
	return m.SecretFunc(p, value)
}

func (m *scriptedUI) Note(title string, body string) error {
	m.asked = append(m.asked, title)
	if m.NoteFunc == nil {
		return nil
	}
	return m.NoteFunc(title, body)
}

// answers returns an InputFunc/SecretFunc that fills values from a map.
func answersFrom(values map[string]string) func(p Prompt, value *string) error {
	return func(p Prompt, value *string) error {
		if v, ok := values[p.Key]; ok {
			*value = v
		}
		return nil
	}
}
