package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ErrorUnknown},
		{name: "plain", err: errors.New("boom"), want: ErrorUnknown},
		{name: "configuration", err: fmt.Errorf("%w: no rule", ErrConfiguration), want: ErrorConfiguration},
		{name: "fetch", err: fmt.Errorf("%w: gone", ErrFetch), want: ErrorFetch},
		{name: "adaptation", err: fmt.Errorf("%w: shape", ErrAdaptation), want: ErrorAdaptation},
		{name: "storage", err: fmt.Errorf("%w: disk", ErrStorage), want: ErrorStorage},
		{name: "deadline while normalizing", err: fmt.Errorf("normalize: %w", context.DeadlineExceeded), want: ErrorCanceled},
		{name: "cancel while writing", err: fmt.Errorf("%w: interrupted: %w", ErrStorage, context.Canceled), want: ErrorCanceled},
	}
	for _, tc := range cases {
		if got := ClassifyError(tc.err); got != tc.want {
			t.Fatalf("%s: ClassifyError = %q, want %q", tc.name, got, tc.want)
		}
	}
}
