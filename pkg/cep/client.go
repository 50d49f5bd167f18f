// Package cep looks up Brazilian postal codes.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/validation"
)

// DefaultBaseURL points at the public ViaCEP service.
const DefaultBaseURL = "https://viacep.com.br"

// Address is the part of a lookup result used to auto-fill address fields.
type Address struct {
	CEP          string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

// Outcome labels a finished lookup.
type Outcome string

const (
	OutcomeFound      Outcome = "found"
	OutcomeNotFound   Outcome = "not_found"
	OutcomeIncomplete Outcome = "incomplete"
	OutcomeError      Outcome = "error"
)

// Looker is implemented by anything that resolves a CEP.
type Looker interface {
	Lookup(ctx context.Context, cep string) *Address
}

// Client queries a ViaCEP compatible endpoint.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   logrus.FieldLogger
	observer func(Outcome)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient swaps the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for lookup failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a callback invoked with the outcome of every lookup.
func WithObserver(fn func(Outcome)) Option {
	return func(c *Client) {
		c.observer = fn
	}
}

// NewClient builds a client with a five second timeout against ViaCEP.
func NewClient(options ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type viaCEPResponse struct {
	Erro       flexBool `json:"erro"`
	CEP        string   `json:"cep"`
	UF         string   `json:"uf"`
	Localidade string   `json:"localidade"`
	Bairro     string   `json:"bairro"`
	Logradouro string   `json:"logradouro"`
}

// flexBool accepts both true and "true"; ViaCEP has returned either.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true":
		*b = true
	default:
		*b = false
	}
	return nil
}

// Lookup resolves cep. It returns nil for incomplete input, for codes the
// service does not know and for any transport or decoding failure; failures
// are logged, never returned.
func (c *Client) Lookup(ctx context.Context, cep string) *Address {
	digits := validation.NormalizeCEP(cep)
	if !validation.IsCompleteCEP(digits) {
		c.observe(OutcomeIncomplete)
		return nil
	}
	log := c.logger.WithField("cep", digits)

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.WithError(err).Warn("cep: build request")
		c.observe(OutcomeError)
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("cep: lookup failed")
		c.observe(OutcomeError)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("cep: unexpected status")
		c.observe(OutcomeError)
		return nil
	}

	var payload viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.WithError(err).Warn("cep: decode response")
		c.observe(OutcomeError)
		return nil
	}
	if payload.Erro {
		log.Debug("cep: not found")
		c.observe(OutcomeNotFound)
		return nil
	}

	c.observe(OutcomeFound)
	return &Address{
		CEP:          validation.FormatCEP(digits),
		State:        payload.UF,
		City:         payload.Localidade,
		Neighborhood: payload.Bairro,
		Street:       payload.Logradouro,
	}
}

func (c *Client) observe(outcome Outcome) {
	if c.observer != nil {
		c.observer(outcome)
	}
}
