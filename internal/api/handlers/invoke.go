package handlers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"geo-calculator-service/internal/api/dto"
	"geo-calculator-service/internal/domain"
	"geo-calculator-service/internal/platform/obs"
	"geo-calculator-service/internal/services"
)

// Calculator is the dispatcher behind every transport.
type Calculator interface {
	Calculate(ctx context.Context, req services.Request) (any, error)
}

const timestampLayout = "2006-01-02T15:04:05.000Z"

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// Invoke runs one calculation for a raw event and shapes the response
// envelope. Every failure becomes a 500 with the error message.
func Invoke(ctx context.Context, calc Calculator, event []byte) dto.Response {
	start := time.Now()
	reqID := obs.RequestID(ctx)

	log.Printf("[MAIN] req_id=%s calculation started event_bytes=%d", reqID, len(event))

	req, err := ParsePayload(event)
	if err == nil {
		log.Printf("[MAIN] req_id=%s type=%s person_id=%d venue_id1=%d venue_id2=%d recalc_fees=%v",
			reqID, req.Type, req.PersonID, req.VenueID1, req.VenueID2, req.RecalcFees)

		var result any
		result, err = calc.Calculate(ctx, req)
		if err == nil {
			resp, encErr := success(req.Type, result, start)
			if encErr == nil {
				obs.RecordRequest(ctx, req.Type, nil)
				log.Printf("[MAIN] req_id=%s calculation completed type=%s dur=%dms",
					reqID, req.Type, time.Since(start).Milliseconds())
				return resp
			}
			err = encErr
		}
	}

	obs.RecordRequest(ctx, req.Type, err)
	log.Printf("[MAIN ERROR] req_id=%s calculation failed kind=%s dur=%dms err=%v",
		reqID, domain.KindOf(err), time.Since(start).Milliseconds(), err)
	return failure(err, start)
}

func success(calcType string, result any, start time.Time) (dto.Response, error) {
	body, err := json.Marshal(dto.SuccessBody{
		Success:   true,
		Type:      calcType,
		Result:    result,
		Duration:  time.Since(start).Milliseconds(),
		Timestamp: time.Now().UTC().Format(timestampLayout),
	})
	if err != nil {
		return dto.Response{}, domain.Wrap(domain.KindUnknown, err, "encode result")
	}

	return dto.Response{StatusCode: 200, Headers: jsonHeaders, Body: string(body)}, nil
}

func failure(err error, start time.Time) dto.Response {
	body, encErr := json.Marshal(dto.FailureBody{
		Success:   false,
		Error:     err.Error(),
		ErrorKind: domain.KindOf(err).String(),
		Duration:  time.Since(start).Milliseconds(),
		Timestamp: time.Now().UTC().Format(timestampLayout),
	})
	if encErr != nil {
		body = []byte(`{"success":false,"error":"internal error"}`)
	}

	return dto.Response{StatusCode: 500, Headers: jsonHeaders, Body: string(body)}
}
