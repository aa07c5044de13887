package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"geo-calculator-service/internal/api/dto"
	"geo-calculator-service/internal/domain"
	"geo-calculator-service/internal/services"

	"github.com/mitchellh/mapstructure"
)

// ParsePayload extracts the calculation request from an invocation event.
// When the event carries a body (JSON string or object) the body is the
// payload; otherwise the event itself is.
func ParsePayload(event []byte) (services.Request, error) {
	event = bytes.TrimSpace(event)
	if len(event) == 0 {
		return services.Request{}, domain.Errorf(domain.KindValidation, "invalid payload: empty event")
	}

	fields, err := decodeObject(event)
	if err != nil {
		return services.Request{}, domain.Wrap(domain.KindValidation, err, "invalid payload: parse event")
	}

	switch body := fields["body"].(type) {
	case string:
		if body != "" {
			fields, err = decodeObject([]byte(body))
			if err != nil {
				return services.Request{}, domain.Wrap(domain.KindValidation, err, "invalid payload: parse body")
			}
		}
	case map[string]any:
		fields = body
	}

	var req dto.CalculateRequest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: idHook,
		Result:     &req,
	})
	if err != nil {
		return services.Request{}, fmt.Errorf("invalid payload: build decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return services.Request{}, domain.Wrap(domain.KindValidation, err, "invalid payload")
	}

	return services.Request{
		Type:       req.Type,
		PersonID:   req.PersonID,
		VenueID1:   req.VenueID1,
		VenueID2:   req.VenueID2,
		RecalcFees: req.RecalcFees,
	}, nil
}

// decodeObject parses one JSON object, keeping numbers as json.Number so ids
// are never rounded through float64.
func decodeObject(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}
	return fields, nil
}

// idHook accepts integral JSON numbers and numeric strings for int64 ids.
// Fractions, booleans and out-of-range values are rejected, never truncated.
func idHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int64 {
		return data, nil
	}

	var s string
	switch v := data.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
		if s == "" {
			return int64(0), nil
		}
	default:
		return nil, fmt.Errorf("id must be an integer, got %T", data)
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id %q is not a 64-bit integer", s)
	}
	return id, nil
}
