package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/interfaces"
	"github.com/lane-lab/kanvas/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const defaultTimeout = 5 * time.Second

// Validator calls an external HTTP hook before a card move is committed.
// The engine blocks the commit until the hook responds.
type Validator struct {
	url    string
	client *http.Client
}

// Option configures a Validator
type Option func(*Validator)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(v *Validator) {
		v.client = client
	}
}

// New creates a Validator posting to the given URL
func New(url string, opts ...Option) *Validator {
	v := &Validator{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type moveRequest struct {
	RecordID               string          `json:"recordId"`
	EntityName             string          `json:"entityName"`
	SourceColumnTitle      string          `json:"sourceColumnTitle"`
	DestinationColumnTitle string          `json:"destinationColumnTitle"`
	Card                   json.RawMessage `json:"card"`
}

type moveResponse struct {
	Allow   bool   `json:"allow"`
	Message string `json:"message"`
}

// OnBeforeMove implements interfaces.MoveValidator. A non-2xx response or
// an {allow: false} body vetoes the move.
func (v *Validator) OnBeforeMove(ctx context.Context, input interfaces.MoveInput) (interfaces.MoveDecision, error) {
	card, err := json.Marshal(input.Card)
	if err != nil {
		return interfaces.MoveDecision{}, goerr.Wrap(err, "failed to encode card for move hook")
	}

	body, err := json.Marshal(moveRequest{
		RecordID:               input.RecordID.String(),
		EntityName:             input.EntityName.String(),
		SourceColumnTitle:      input.SourceColumnTitle,
		DestinationColumnTitle: input.DestinationColumnTitle,
		Card:                   card,
	})
	if err != nil {
		return interfaces.MoveDecision{}, goerr.Wrap(err, "failed to encode move hook request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return interfaces.MoveDecision{}, goerr.Wrap(err, "failed to build move hook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return interfaces.MoveDecision{}, goerr.Wrap(err, "move hook request failed", goerr.V("url", v.url))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return interfaces.MoveDecision{Allow: false, Message: "move rejected by validation hook"}, nil
	}

	var decision moveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		// an empty or non-JSON 2xx body counts as approval
		return interfaces.MoveDecision{Allow: true}, nil
	}
	return interfaces.MoveDecision{Allow: decision.Allow, Message: decision.Message}, nil
}
