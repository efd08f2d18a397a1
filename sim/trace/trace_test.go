package trace

import (
	"errors"
	"strings"
	"testing"
)

func TestCommitTrace_RecordAndLen(t *testing.T) {
	ct := NewCommitTrace("full-jitter")
	if ct.Len() != 0 {
		t.Fatalf("fresh trace Len() = %d, want 0", ct.Len())
	}
	ct.RecordCommit(12.5)
	ct.RecordCommit(20)
	if ct.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ct.Len())
	}
	if ct.Policy != "full-jitter" {
		t.Errorf("Policy = %q, want full-jitter", ct.Policy)
	}
}

func TestCommitTrace_Dump(t *testing.T) {
	ct := NewCommitTrace("none")
	ct.RecordCommit(12.5)
	ct.RecordCommit(20)
	ct.RecordCommit(20)

	var sb strings.Builder
	if err := ct.Dump(&sb); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	want := "12.500\n20.000\n20.000\n"
	if sb.String() != want {
		t.Errorf("Dump output %q, want %q", sb.String(), want)
	}
}

func TestCommitTrace_DumpEmpty(t *testing.T) {
	var sb strings.Builder
	if err := NewCommitTrace("none").Dump(&sb); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if sb.Len() != 0 {
		t.Errorf("empty trace produced output %q", sb.String())
	}
}

// failWriter fails every write, for exercising the error path.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCommitTrace_DumpPropagatesWriteError(t *testing.T) {
	ct := NewCommitTrace("expo")
	ct.RecordCommit(1)

	err := ct.Dump(failWriter{})
	if err == nil {
		t.Fatal("Dump to failing writer returned nil error")
	}
	if !strings.Contains(err.Error(), "expo") {
		t.Errorf("error %q does not name the policy", err)
	}
}
