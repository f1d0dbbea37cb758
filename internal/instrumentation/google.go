package instrumentation

import (
	"context"
	"time"
)

// TrackGoogleAPI runs fn inside a google.<service>.<operation> span and
// records the operation count and duration on m. m may be nil.
func TrackGoogleAPI(ctx context.Context, m *Metrics, service, operation string, fn func(context.Context) error) error {
	ctx, span := StartGoogleAPISpan(ctx, service, operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := StatusSuccess
	if err != nil {
		status = StatusError
		SetSpanError(span, err)
	} else {
		SetSpanSuccess(span)
	}
	m.RecordGoogleAPIOperation(ctx, service, operation, status, time.Since(start))

	return err
}
