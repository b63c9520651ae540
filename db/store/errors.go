package store

import (
	"errors"
	"fmt"
)

var ErrInvalidRecord = errors.New("invalid record")

type InvalidRecordError struct {
	Bucket string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record for bucket %s: %s", e.Bucket, e.Reason)
}

func (e *InvalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}
