package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// State is where a form sits in its submit cycle:
//
//	idle → validating → confirming → submitting → idle
//	            ↓ invalid      ↓ cancel
//	          idle            idle
type State int

const (
	StateIdle State = iota
	StateValidating
	StateConfirming
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateConfirming:
		return "confirming"
	case StateSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrInvalid      = errors.New("form: invalid fields")
	ErrBusy         = errors.New("form: not idle")
	ErrNotConfirmed = errors.New("form: nothing awaiting confirmation")
	ErrUnknownField = errors.New("form: unknown field")
)

// ServerErrorText is shown when a submit fails without a message meant for
// the user.
const ServerErrorText = "Server Error"

// UserMessager is implemented by errors that carry a message fit to show in
// a banner, such as an API error body.
type UserMessager interface {
	UserMessage() string
}

// MessageOf returns the banner text for err.
func MessageOf(err error) string {
	var um UserMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return ServerErrorText
}

// Values are the current field values keyed by field name.
type Values map[string]string

func (v Values) Get(name string) string { return v[name] }

// SubmitFunc performs the form's action and returns the success text to show.
type SubmitFunc func(ctx context.Context, v Values) (string, error)

type field struct {
	name     string
	rule     string
	number   bool
	required bool
	value    string
	valid    bool
}

func (f *field) check() bool {
	if f.value == "" {
		return !f.required
	}
	switch {
	case f.rule == "":
		return true
	case f.number:
		return Number(f.rule, f.value)
	default:
		return Test(f.rule, f.value)
	}
}

type crossCheck struct {
	field string
	fn    func(Values) bool
}

type Option func(*Form)

// WithConfirm makes Submit stop in StateConfirming until Confirm or Cancel.
func WithConfirm() Option { return func(f *Form) { f.confirm = true } }

// WithResetOnSuccess clears every field after a successful submit.
func WithResetOnSuccess() Option { return func(f *Form) { f.resetOnSuccess = true } }

func WithNotice(n *Notice) Option { return func(f *Form) { f.notice = n } }

// WithCheck adds a rule spanning several fields. A false result marks field
// invalid.
func WithCheck(field string, fn func(Values) bool) Option {
	return func(f *Form) { f.checks = append(f.checks, crossCheck{field: field, fn: fn}) }
}

// Form is a headless form: a set of validated fields, an optional
// confirmation step and a banner for the outcome. Validation only runs on
// Submit; editing a field marks it valid again.
type Form struct {
	submit         SubmitFunc
	confirm        bool
	resetOnSuccess bool
	notice         *Notice
	checks         []crossCheck

	mu     sync.Mutex
	state  State
	fields []*field
	index  map[string]*field
}

func New(submit SubmitFunc, opts ...Option) *Form {
	f := &Form{submit: submit, index: map[string]*field{}}
	for _, opt := range opts {
		opt(f)
	}
	if f.notice == nil {
		f.notice = NewNotice(DefaultTTL, nil)
	}
	return f
}

// Add registers a text field checked with Test. An empty rule accepts any
// non-empty value.
func (f *Form) Add(name, rule string, required bool) *Form {
	return f.add(&field{name: name, rule: rule, required: required, valid: true})
}

// AddNumber registers a numeric field checked with Number.
func (f *Form) AddNumber(name, rule string, required bool) *Form {
	return f.add(&field{name: name, rule: rule, number: true, required: required, valid: true})
}

func (f *Form) add(fl *field) *Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = append(f.fields, fl)
	f.index[fl.name] = fl
	return f
}

// Set changes a field value. The field is considered valid until the next
// Submit and any banner is cleared.
func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	fl.value = value
	fl.valid = true
	f.notice.Clear()
	return nil
}

func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fl, ok := f.index[name]; ok {
		return fl.value
	}
	return ""
}

// Valid reports the field's validity as of the last Submit.
func (f *Form) Valid(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fl, ok := f.index[name]; ok {
		return fl.valid
	}
	return false
}

// Invalid lists the fields that failed the last Submit, in declaration order.
func (f *Form) Invalid() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, fl := range f.fields {
		if !fl.valid {
			out = append(out, fl.name)
		}
	}
	return out
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Notice() *Notice { return f.notice }

// Submit validates every field. When any field is invalid the form returns
// to idle with ErrInvalid and the submit function is not called. A form built
// WithConfirm then waits in StateConfirming; otherwise it submits right away.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return ErrBusy
	}
	f.state = StateValidating
	f.notice.Clear()

	ok := true
	for _, fl := range f.fields {
		fl.valid = fl.check()
		ok = ok && fl.valid
	}
	values := f.valuesLocked()
	for _, c := range f.checks {
		if fl, found := f.index[c.field]; found && fl.valid && !c.fn(values) {
			fl.valid = false
			ok = false
		}
	}
	if !ok {
		f.state = StateIdle
		f.mu.Unlock()
		return ErrInvalid
	}
	if f.confirm {
		f.state = StateConfirming
		f.mu.Unlock()
		return nil
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	return f.run(ctx, values)
}

// Confirm submits a form waiting in StateConfirming.
func (f *Form) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateConfirming {
		f.mu.Unlock()
		return ErrNotConfirmed
	}
	f.state = StateSubmitting
	values := f.valuesLocked()
	f.mu.Unlock()

	return f.run(ctx, values)
}

// Cancel dismisses a pending confirmation.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateConfirming {
		f.state = StateIdle
	}
}

func (f *Form) run(ctx context.Context, values Values) error {
	text, err := f.submit(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle
	if err != nil {
		f.notice.Error(MessageOf(err))
		return err
	}
	if f.resetOnSuccess {
		for _, fl := range f.fields {
			fl.value = ""
			fl.valid = true
		}
	}
	f.notice.Success(text)
	return nil
}

func (f *Form) valuesLocked() Values {
	v := make(Values, len(f.fields))
	for _, fl := range f.fields {
		v[fl.name] = fl.value
	}
	return v
}
