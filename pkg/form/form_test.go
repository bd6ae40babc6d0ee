package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock collects scheduled callbacks so tests decide when they fire.
type fakeClock struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (c *fakeClock) schedule(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, fn)
	c.delays = append(c.delays, d)
}

func (c *fakeClock) fireAll() {
	c.mu.Lock()
	fns := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type userErr struct{ msg string }

func (e userErr) Error() string       { return "api: " + e.msg }
func (e userErr) UserMessage() string { return e.msg }

type spy struct {
	calls int
	last  Values
	text  string
	err   error
}

func (s *spy) submit(_ context.Context, v Values) (string, error) {
	s.calls++
	s.last = v
	return s.text, s.err
}

// ---------------------------------------------------------------------------
// Validation gate
// ---------------------------------------------------------------------------

func TestSignup_InvalidUsernameNeverSubmits(t *testing.T) {
	s := &spy{}
	f := NewSignupForm(s.submit)
	require.NoError(t, f.Set(FieldFirstname, "An"))
	require.NoError(t, f.Set(FieldLastname, "Tran"))
	require.NoError(t, f.Set(FieldUsername, "foo"))
	require.NoError(t, f.Set(FieldPassword, "Abc1@x"))

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrInvalid)
	assert.False(t, f.Valid(FieldUsername))
	assert.True(t, f.Valid(FieldPassword))
	assert.Equal(t, StateIdle, f.State())
	assert.Zero(t, s.calls)
}

func TestSubmit_RequiredEmptyFieldsStayInvalid(t *testing.T) {
	s := &spy{}
	f := NewProductForm(s.submit)

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, []string{
		FieldName, FieldDescription, FieldQuantity, FieldPrice, FieldPromotionalPrice,
		FieldCategoryID, FieldProducerID, "image0",
	}, f.Invalid())
	assert.Zero(t, s.calls)
}

func TestSet_ResetsValidity(t *testing.T) {
	f := NewSigninForm((&spy{}).submit)
	_ = f.Submit(context.Background())
	require.False(t, f.Valid(FieldUsername))

	require.NoError(t, f.Set(FieldUsername, "x"))

	assert.True(t, f.Valid(FieldUsername))
}

func TestSet_UnknownField(t *testing.T) {
	f := NewSigninForm((&spy{}).submit)
	assert.ErrorIs(t, f.Set("nope", "x"), ErrUnknownField)
}

func TestProductForm_PromotionalPriceAbovePrice(t *testing.T) {
	s := &spy{}
	f := NewProductForm(s.submit)
	for k, v := range map[string]string{
		FieldName: "Cà phê", FieldDescription: "Robusta", FieldQuantity: "10",
		FieldPrice: "50000", FieldPromotionalPrice: "60000",
		FieldCategoryID: "c1", FieldProducerID: "p1", "image0": "/tmp/a.jpg",
	} {
		require.NoError(t, f.Set(k, v))
	}

	err := f.Submit(context.Background())

	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, []string{FieldPromotionalPrice}, f.Invalid())
	assert.Zero(t, s.calls)
}

// ---------------------------------------------------------------------------
// Confirmation and submission
// ---------------------------------------------------------------------------

func validSignup(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.Set(FieldFirstname, "An"))
	require.NoError(t, f.Set(FieldLastname, "Tran"))
	require.NoError(t, f.Set(FieldUsername, "an@gooddeal.vn"))
	require.NoError(t, f.Set(FieldPassword, "Abc1@x"))
}

func TestSubmit_WaitsForConfirmation(t *testing.T) {
	clock := &fakeClock{}
	s := &spy{text: "Sign up successfully"}
	f := NewSignupForm(s.submit, WithNotice(NewNotice(0, clock.schedule)))
	validSignup(t, f)

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, StateConfirming, f.State())
	assert.Zero(t, s.calls)

	require.NoError(t, f.Confirm(context.Background()))

	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "an@gooddeal.vn", s.last.Get(FieldUsername))
	assert.Equal(t, StateIdle, f.State())
	assert.Equal(t, Message{Kind: KindSuccess, Text: "Sign up successfully"}, f.Notice().Current())
	assert.Empty(t, f.Value(FieldUsername), "signup clears on success")
}

func TestCancel_ReturnsToIdle(t *testing.T) {
	s := &spy{}
	f := NewSignupForm(s.submit)
	validSignup(t, f)
	require.NoError(t, f.Submit(context.Background()))

	f.Cancel()

	assert.Equal(t, StateIdle, f.State())
	assert.ErrorIs(t, f.Confirm(context.Background()), ErrNotConfirmed)
	assert.Zero(t, s.calls)
}

func TestSubmit_BusyWhileConfirming(t *testing.T) {
	f := NewSignupForm((&spy{}).submit)
	validSignup(t, f)
	require.NoError(t, f.Submit(context.Background()))

	assert.ErrorIs(t, f.Submit(context.Background()), ErrBusy)
}

func TestSubmit_WithoutConfirmRunsImmediately(t *testing.T) {
	s := &spy{text: "ok"}
	f := NewSigninForm(s.submit)
	require.NoError(t, f.Set(FieldUsername, "0912345678"))
	require.NoError(t, f.Set(FieldPassword, "Abc1@x"))

	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "0912345678", f.Value(FieldUsername), "signin keeps values")
}

func TestSubmit_ErrorBanner(t *testing.T) {
	clock := &fakeClock{}
	n := NewNotice(0, clock.schedule)

	s := &spy{err: userErr{msg: "Email or phone not found"}}
	f := NewSigninForm(s.submit, WithNotice(n))
	require.NoError(t, f.Set(FieldUsername, "0912345678"))
	require.NoError(t, f.Set(FieldPassword, "Abc1@x"))

	err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, Message{Kind: KindError, Text: "Email or phone not found"}, n.Current())

	s.err = errors.New("dial tcp: connection refused")
	_ = f.Submit(context.Background())
	assert.Equal(t, Message{Kind: KindError, Text: ServerErrorText}, n.Current())
}

func TestConfirmAction(t *testing.T) {
	s := &spy{text: "Cancelled"}
	f := NewConfirmAction(s.submit)

	require.NoError(t, f.Submit(context.Background()))
	require.Equal(t, StateConfirming, f.State())
	require.NoError(t, f.Confirm(context.Background()))

	assert.Equal(t, 1, s.calls)
}

// ---------------------------------------------------------------------------
// Notice
// ---------------------------------------------------------------------------

func TestNotice_ClearsAfterTTL(t *testing.T) {
	clock := &fakeClock{}
	n := NewNotice(0, clock.schedule)

	n.Success("Saved")
	assert.Equal(t, "Saved", n.Current().Text)
	assert.Equal(t, []time.Duration{DefaultTTL}, clock.delays)

	clock.fireAll()

	assert.Equal(t, Message{}, n.Current())
}

func TestNotice_StaleTimerKeepsNewerMessage(t *testing.T) {
	clock := &fakeClock{}
	n := NewNotice(time.Second, clock.schedule)

	n.Error("first")
	first := clock.pending[0]
	n.Success("second")

	first()

	assert.Equal(t, Message{Kind: KindSuccess, Text: "second"}, n.Current())
}

func TestSet_ClearsBanner(t *testing.T) {
	clock := &fakeClock{}
	n := NewNotice(0, clock.schedule)
	f := NewSigninForm((&spy{err: userErr{msg: "nope"}}).submit, WithNotice(n))
	require.NoError(t, f.Set(FieldUsername, "0912345678"))
	require.NoError(t, f.Set(FieldPassword, "Abc1@x"))
	_ = f.Submit(context.Background())
	require.Equal(t, KindError, n.Current().Kind)

	require.NoError(t, f.Set(FieldPassword, "Abc1@y"))

	assert.Equal(t, KindNone, n.Current().Kind)
}
