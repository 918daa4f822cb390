// Package datasource fetches claim material over HTTPS and selects
// fields with a small JSON path language:
//
//	"field"            top-level field
//	"parent.child"     nested access
//	"items[2]"         array indexing
//	"data.users[0].id" combined
//
// An empty query selects the whole document.
package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrInvalidQuery  = errors.New("invalid query")
)

const fetchTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

type HttpProvider struct {
	client *http.Client
}

var _ domain.DataProvider = (*HttpProvider)(nil)

func NewHttpProvider() *HttpProvider {
	return &HttpProvider{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch retrieves a JSON document and returns the selected field,
// re-serialized as JSON bytes.
func (p *HttpProvider) Fetch(ctx context.Context, source, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http %d from %s", resp.StatusCode, source)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return SelectJSONField(doc, query)
}

// SelectJSONField walks a decoded JSON document along a path expression.
func SelectJSONField(doc any, path string) ([]byte, error) {
	if path == "" {
		return json.Marshal(doc)
	}

	current := doc
	for _, part := range strings.Split(path, ".") {
		var err error
		current, err = selectPart(current, part)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(current)
}

func selectPart(current any, part string) (any, error) {
	bracket := strings.IndexByte(part, '[')
	if bracket < 0 {
		return fieldOf(current, part)
	}

	fieldName := part[:bracket]
	rest := part[bracket:]
	if !strings.HasSuffix(rest, "]") {
		return nil, fmt.Errorf("%w: bad array syntax %q", ErrInvalidQuery, part)
	}
	index, err := strconv.Atoi(rest[1 : len(rest)-1])
	if err != nil || index < 0 {
		return nil, fmt.Errorf("%w: bad array index in %q", ErrInvalidQuery, part)
	}

	if fieldName != "" {
		current, err = fieldOf(current, fieldName)
		if err != nil {
			return nil, err
		}
	}

	arr, ok := current.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array", ErrFieldNotFound, fieldName)
	}
	if index >= len(arr) {
		return nil, fmt.Errorf("%w: index %d out of bounds", ErrFieldNotFound, index)
	}
	return arr[index], nil
}

func fieldOf(current any, name string) (any, error) {
	obj, ok := current.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	value, ok := obj[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	return value, nil
}
