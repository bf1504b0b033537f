package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/multiples/internal/models"
)

// DecodeStatements decodes a JSON array of income statements, rejecting
// anything that is not an array of objects with an *InvalidInputError.
// A JSON null or empty input is an empty series.
func DecodeStatements(data []byte) ([]models.IncomeStatementRecord, error) {
	elements, err := decodeObjectArray(data)
	if err != nil {
		return nil, err
	}
	out := make([]models.IncomeStatementRecord, len(elements))
	for i, raw := range elements {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			return nil, &InvalidInputError{Index: i, Reason: err.Error()}
		}
	}
	return out, nil
}

// DecodeMarketCaps decodes a JSON array of market-cap snapshots.
// Elements that are not objects are skipped; the series is advisory.
func DecodeMarketCaps(data []byte) ([]models.MarketCapSnapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("market caps: %w", err)
	}
	out := make([]models.MarketCapSnapshot, 0, len(elements))
	for _, raw := range elements {
		var mc models.MarketCapSnapshot
		if !isObject(raw) || json.Unmarshal(raw, &mc) != nil {
			continue
		}
		out = append(out, mc)
	}
	return out, nil
}

func decodeObjectArray(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '[' {
		return nil, &InvalidInputError{Index: -1, Reason: "expected a JSON array"}
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, &InvalidInputError{Index: -1, Reason: err.Error()}
	}
	for i, raw := range elements {
		if !isObject(raw) {
			return nil, &InvalidInputError{Index: i, Reason: "expected an object"}
		}
	}
	return elements, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
