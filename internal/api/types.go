package api

import "time"

// View types rendered by the HTML templates. They carry already-localised
// text so templates stay free of lookup logic.

// Page is the layout wrapper shared by every response.
type Page struct {
	Lang    string
	Title   string
	Content any
}

// FormView is the GCD input form. N and M pre-fill the inputs.
type FormView struct {
	Heading string
	LabelN  string
	LabelM  string
	Submit  string
	Action  string
	N       string
	M       string
}

// ResultView is the success page for POST /gcd.
type ResultView struct {
	N        uint64
	M        uint64
	Divisor  uint64
	Lead     string
	Again    string
	FormPath string
}

// ErrorView explains a rejected request. Form is set when the rejected
// request was a submission, so the user can correct it in place.
type ErrorView struct {
	Status   int
	Heading  string
	Message  string
	Back     string
	FormPath string
	Form     *FormView
}

// TimeNow abstracts time for tests; overridden in tests.
var TimeNow = func() time.Time { return time.Now() }
