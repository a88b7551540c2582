package ports

import (
	"context"
	"fmt"
	"io"
	"time"
)

// BatchProcessor canonicalizes newline-delimited JSON records from reader
// and writes them to writer in input order.
type BatchProcessor interface {
	Process(ctx context.Context, reader io.Reader, writer io.Writer) (BatchSummary, error)
}

// LineError reports a record that could not be processed.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// BatchSummary holds the outcome of a batch run.
type BatchSummary struct {
	Lines          int
	Utterances     int
	Annotations    int
	Skipped        int
	Errors         []LineError
	BytesProcessed int64
	ProcessingTime time.Duration
}
