package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/sanverite/gcdweb/internal/core"
)

const formContentType = "application/x-www-form-urlencoded"

// FormErrorKind classifies a form body that could not be decoded.
type FormErrorKind int

const (
	FormErrBody FormErrorKind = iota
	FormErrContentType
	FormErrDuplicate
)

// FormError reports a submission whose body could not be turned into field
// values.
type FormError struct {
	Kind  FormErrorKind
	Field string
	Err   error
}

func (e *FormError) Error() string {
	switch e.Kind {
	case FormErrContentType:
		return fmt.Sprintf("unsupported content type: %v", e.Err)
	case FormErrDuplicate:
		return fmt.Sprintf("field %q given more than once", e.Field)
	default:
		return fmt.Sprintf("reading form body: %v", e.Err)
	}
}

func (e *FormError) Unwrap() error { return e.Err }

// gcdForm holds the raw n and m values of a submission.
type gcdForm struct {
	N string
	M string
}

// decodeGCDForm reads at most limit bytes of URL-encoded form data from r.
// Unknown fields are ignored; n or m given twice is an error.
func decodeGCDForm(w http.ResponseWriter, r *http.Request, limit int64) (gcdForm, error) {
	ct := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return gcdForm{}, &FormError{Kind: FormErrContentType, Err: err}
	}
	if mediaType != formContentType {
		return gcdForm{}, &FormError{Kind: FormErrContentType, Err: fmt.Errorf("got %q, want %q", mediaType, formContentType)}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return gcdForm{}, &FormError{Kind: FormErrBody, Err: err}
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return gcdForm{}, &FormError{Kind: FormErrBody, Err: err}
	}
	for _, field := range []string{core.FieldN, core.FieldM} {
		if len(values[field]) > 1 {
			return gcdForm{}, &FormError{Kind: FormErrDuplicate, Field: field}
		}
	}
	return gcdForm{N: values.Get(core.FieldN), M: values.Get(core.FieldM)}, nil
}
