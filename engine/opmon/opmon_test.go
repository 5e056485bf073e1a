package opmon

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestOperation(t *testing.T) {
	for i := 0; i < 3; i++ {
		op := StartOperation("test.op")
		op.Finish(time.Hour)
	}

	var found bool
	for _, s := range Stats() {
		if s.Name == "test.op" {
			found = true
			if s.Count != 3 {
				t.Errorf("count should be 3, got %d", s.Count)
			}
			if s.Avg() > s.MaxDuration {
				t.Errorf("avg %s > max %s", s.Avg(), s.MaxDuration)
			}
		}
	}
	if !found {
		t.Fatalf("test.op not recorded")
	}

	var buf bytes.Buffer
	Dump(&buf)
	if !strings.Contains(buf.String(), "test.op") {
		t.Errorf("dump should contain test.op: %s", buf.String())
	}
	for _, s := range Stats() {
		if s.Name == "test.op" {
			t.Errorf("stats should be cleared after dump")
		}
	}
}
