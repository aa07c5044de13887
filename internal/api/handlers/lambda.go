package handlers

import (
	"context"
	"encoding/json"

	"geo-calculator-service/internal/api/dto"
	"geo-calculator-service/internal/platform/obs"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaHandler adapts calc to the signature expected by lambda.Start.
// Failures are reported in the envelope, never as a Lambda error.
// metrics may be nil.
func LambdaHandler(calc Calculator, metrics *obs.Metrics) func(ctx context.Context, event json.RawMessage) (dto.Response, error) {
	return func(ctx context.Context, event json.RawMessage) (dto.Response, error) {
		var reqID string
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			reqID = lc.AwsRequestID
		}
		ctx = obs.WithRequestID(ctx, reqID)
		ctx = obs.WithMetrics(ctx, metrics)

		return Invoke(ctx, calc, event), nil
	}
}
