// Package guest calls the random host module from Go code compiled to
// wasip1, or from native code through a local registry.
//
//	c := guest.Host() // wasip1 only
//	gen, err := c.XorShiftNew(seed)
//	draw, err := c.XorShiftNext(gen)
//
// Seeded generators are plain values, so rand.XorShiftRng.Next gives the
// same result as XorShiftNext without leaving the guest.
package guest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
	"github.com/reglet-dev/reglet-rand/hostfuncs"
	"github.com/reglet-dev/reglet-rand/rand"
)

var errMissingValue = errors.New("response has neither value nor error")

// Transport delivers one JSON request to a named host function.
type Transport interface {
	Call(function string, payload []byte) ([]byte, error)
}

// HostError is a dispatch failure reported by the host: unknown function,
// malformed request or internal error.
type HostError struct {
	Kind    string
	Message string
	Code    int
}

func (e *HostError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Client is a typed view of the random module.
type Client struct {
	transport Transport
}

// NewClient returns a client sending calls over t.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// NextInt draws from the host's global generator.
func (c *Client) NextInt() (int64, error) {
	resp, err := call[hostfuncs.UnitRequest, hostfuncs.IntResponse](c.transport, hostfuncs.FuncNextInt, hostfuncs.UnitRequest{})
	return resp.Value, err
}

// NextFloat draws a float in [0, 1) from the host's global generator.
func (c *Client) NextFloat() (float64, error) {
	resp, err := call[hostfuncs.UnitRequest, hostfuncs.FloatResponse](c.transport, hostfuncs.FuncNextFloat, hostfuncs.UnitRequest{})
	return resp.Value, err
}

// GenIntRange draws an integer in [low, high). An empty range comes back
// as an *entities.ErrorDetail with code "empty_range".
func (c *Client) GenIntRange(low, high int64) (int64, error) {
	resp, err := call[hostfuncs.GenIntRangeRequest, hostfuncs.GenIntRangeResponse](c.transport, hostfuncs.FuncGenIntRange,
		hostfuncs.GenIntRangeRequest{Low: low, High: high})
	if err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, resp.Error
	}
	if resp.Value == nil {
		return 0, &rerrors.WireFormatError{Operation: "decode", Type: "GenIntRangeResponse", Err: errMissingValue}
	}
	return *resp.Value, nil
}

// XorShiftNew builds a generator from exactly 16 seed bytes.
func (c *Client) XorShiftNew(seed []byte) (rand.XorShiftRng, error) {
	resp, err := call[hostfuncs.XorShiftNewRequest, hostfuncs.XorShiftNewResponse](c.transport, hostfuncs.FuncXorShiftNew,
		hostfuncs.XorShiftNewRequest{Seed: seed})
	if err != nil {
		return rand.XorShiftRng{}, err
	}
	if resp.Error != nil {
		return rand.XorShiftRng{}, resp.Error
	}
	if resp.Gen == nil {
		return rand.XorShiftRng{}, fmt.Errorf("host returned neither generator nor error")
	}
	return *resp.Gen, nil
}

// XorShiftNext advances a copy of gen once.
func (c *Client) XorShiftNext(gen rand.XorShiftRng) (rand.Draw, error) {
	return call[hostfuncs.XorShiftNextRequest, hostfuncs.XorShiftNextResponse](c.transport, hostfuncs.FuncXorShiftNext,
		hostfuncs.XorShiftNextRequest{Gen: &gen})
}

func call[Req any, Resp any](t Transport, function string, req Req) (Resp, error) {
	var resp Resp
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBytes, err := t.Call(function, reqBytes)
	if err != nil {
		return resp, fmt.Errorf("call %s: %w", function, err)
	}
	if len(respBytes) == 0 {
		return resp, fmt.Errorf("call %s: host returned no data", function)
	}

	if hostErr := dispatchError(respBytes); hostErr != nil {
		return resp, hostErr
	}

	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return resp, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return resp, nil
}

// dispatchError recognises hostfuncs.ErrorResponse bodies, whose error
// field is a string; domain errors carry an object there instead.
func dispatchError(data []byte) *HostError {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Code    int             `json:"code"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}
	if !bytes.HasPrefix(bytes.TrimSpace(body.Error), []byte(`"`)) {
		return nil
	}
	var kind string
	if err := json.Unmarshal(body.Error, &kind); err != nil {
		return nil
	}
	return &HostError{Kind: kind, Message: body.Message, Code: body.Code}
}
