package api

import (
	"errors"

	"github.com/sanverite/gcdweb/internal/core"
	"github.com/sanverite/gcdweb/internal/i18n"
)

// NewFormView builds the input form, pre-filled with n and m.
func NewFormView(loc *i18n.Localizer, n, m string) FormView {
	return FormView{
		Heading: loc.T(i18n.MsgFormHeading, nil),
		LabelN:  loc.T(i18n.MsgFormLabelN, nil),
		LabelM:  loc.T(i18n.MsgFormLabelM, nil),
		Submit:  loc.T(i18n.MsgFormSubmit, nil),
		Action:  PathGCD,
		N:       n,
		M:       m,
	}
}

// FromCoreResult converts a computed core.Result into its page.
func FromCoreResult(loc *i18n.Localizer, r core.Result) ResultView {
	return ResultView{
		N:       r.N,
		M:       r.M,
		Divisor: r.Divisor,
		Lead: loc.T(i18n.MsgResultLead, map[string]any{
			"N": r.N,
			"M": r.M,
		}),
		Again:    loc.T(i18n.MsgResultAgain, nil),
		FormPath: PathIndex,
	}
}

// NewErrorView builds an error page for status with the given message.
func NewErrorView(loc *i18n.Localizer, status int, message string) ErrorView {
	return ErrorView{
		Status:   status,
		Heading:  loc.T(i18n.MsgErrorHeading, nil),
		Message:  message,
		Back:     loc.T(i18n.MsgErrorBack, nil),
		FormPath: PathIndex,
	}
}

// RejectionMessage returns the user-facing explanation for a rejected
// submission. err is a *core.ValidationError or a *FormError; anything else
// is reported as an unreadable form.
func RejectionMessage(loc *i18n.Localizer, err error) string {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		switch verr.Reason {
		case core.ReasonZero:
			return loc.T(i18n.MsgErrorZero, nil)
		case core.ReasonMissing:
			return loc.T(i18n.MsgErrorMissing, map[string]any{"Field": verr.Field})
		default:
			return loc.T(i18n.MsgErrorMalformed, map[string]any{"Field": verr.Field, "Value": verr.Value})
		}
	}

	var ferr *FormError
	if errors.As(err, &ferr) {
		switch ferr.Kind {
		case FormErrContentType:
			return loc.T(i18n.MsgErrorContentType, nil)
		case FormErrDuplicate:
			return loc.T(i18n.MsgErrorDuplicate, map[string]any{"Field": ferr.Field})
		}
	}
	return loc.T(i18n.MsgErrorBody, nil)
}
