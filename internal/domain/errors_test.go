package domain

import (
	"fmt"
	"testing"
)

func TestStageOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want Stage
	}{
		{fmt.Errorf("download a.mp4: %w", ErrDownloadFailed), StageDownload},
		{ErrLinkExpiredOrDenied, StageDownload},
		{fmt.Errorf("extract: %w", ErrConvertFailed), StageConvert},
		{ErrTranscribeFailed, StageTranscribe},
		{ErrDeliveryFailed, StageTranscribe},
	}
	for _, tc := range cases {
		if got := StageOf(tc.err); got != tc.want {
			t.Errorf("StageOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
