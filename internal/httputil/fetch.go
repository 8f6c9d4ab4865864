package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Kind classifies why an upstream call failed so callers can decide how to
// present it.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindStatus       Kind = "status"
	KindDecode       Kind = "decode"
	KindMissingField Kind = "missing_field"
	KindConversion   Kind = "conversion"
)

type Error struct {
	Kind   Kind
	Op     string // e.g. "binance ticker BTCUSDT"
	Status int    // set for KindStatus
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func MissingField(op, field string) error {
	return &Error{Kind: KindMissingField, Op: op, Err: fmt.Errorf("field %q missing", field)}
}

func Conversion(op, field string, err error) error {
	return &Error{Kind: KindConversion, Op: op, Err: fmt.Errorf("field %q: %w", field, err)}
}

// GetJSON issues a single GET (no retries) and decodes a 2xx body into out.
// Non-2xx responses are reported with up to 512 bytes of the body.
func GetJSON(ctx context.Context, client *http.Client, op, rawURL string, query url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("parse url: %w", err)}
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Kind: KindStatus, Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return nil
}
