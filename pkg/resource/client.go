// Package resource talks to the console's REST collection api and keeps a
// local, optimistically mutated copy of each entity list.
package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

// Client wraps the generic collection endpoints: GET/POST /{entity} and
// GET/PUT/DELETE /{entity}/{id}. Responses may be a bare array/object or an
// envelope {"data": ...}; both are accepted.
type Client struct {
	BaseUrl    string
	Token      string
	HttpClient *http.Client
}

func NewClient(baseUrl string) *Client {
	return &Client{
		BaseUrl:    strings.TrimRight(baseUrl, "/"),
		HttpClient: &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseUrl+path, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

// List fetches the full collection, with optional query string filters.
func (c *Client) List(ctx context.Context, entity string, filters url.Values) ([]types.Record, error) {
	path := "/" + entity
	if len(filters) > 0 {
		path += "?" + filters.Encode()
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeCollection(resp.Body)
}

func (c *Client) GetById(ctx context.Context, entity, id string) (types.Record, error) {
	resp, err := c.do(ctx, http.MethodGet, "/"+entity+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeOne(resp.Body)
}

// Create posts a record and returns the server echo when the backend sends
// one, otherwise the record as submitted.
func (c *Client) Create(ctx context.Context, entity string, record types.Record) (types.Record, error) {
	resp, err := c.do(ctx, http.MethodPost, "/"+entity, record)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	echo, err := decodeOne(resp.Body)
	if err != nil || len(echo) == 0 {
		return record, nil
	}
	return echo, nil
}

func (c *Client) Update(ctx context.Context, entity, id string, record types.Record) (types.Record, error) {
	resp, err := c.do(ctx, http.MethodPut, "/"+entity+"/"+url.PathEscape(id), record)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	echo, err := decodeOne(resp.Body)
	if err != nil || len(echo) == 0 {
		return record, nil
	}
	return echo, nil
}

func (c *Client) Delete(ctx context.Context, entity, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/"+entity+"/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// decodeCollection accepts both a bare json array and the {"data": ...}
// envelope. A single object comes back as a one element list.
func decodeCollection(r io.Reader) ([]types.Record, error) {
	payload, err := unwrap(r)
	if err != nil {
		return nil, err
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || string(payload) == "null" {
		return []types.Record{}, nil
	}
	if payload[0] == '[' {
		var records []types.Record
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, fmt.Errorf("error decoding collection: %w", err)
		}
		return records, nil
	}
	var record types.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("error decoding collection: %w", err)
	}
	return []types.Record{record}, nil
}

func decodeOne(r io.Reader) (types.Record, error) {
	payload, err := unwrap(r)
	if err != nil {
		return nil, err
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || string(payload) == "null" {
		return types.Record{}, nil
	}
	var record types.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("error decoding record: %w", err)
	}
	return record, nil
}

// unwrap peels the {"data": ...} envelope when present.
func unwrap(r io.Reader) (json.RawMessage, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data, nil
	}
	return trimmed, nil
}
