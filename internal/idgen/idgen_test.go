package idgen

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestGenerate_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ENG-\d+-\d{1,3}$`)
	for i := 0; i < 100; i++ {
		id := Generate("ENG")
		if !pattern.MatchString(id) {
			t.Fatalf("Generate(\"ENG\") = %q, does not match PREFIX-millis-rand", id)
		}
	}
}

func TestGenerate_SuffixRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := Generate("X")
		parts := strings.Split(id, "-")
		if len(parts) != 3 {
			t.Fatalf("Generate = %q, want three dash-separated parts", id)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 0 || n > 999 {
			t.Fatalf("suffix %q out of [0,999]", parts[2])
		}
	}
}

func TestGenerate_ConsecutiveCallsDiffer(t *testing.T) {
	prev := Generate("ENG")
	for i := 0; i < 1000; i++ {
		id := Generate("ENG")
		if id == prev {
			t.Fatalf("consecutive ids identical after %d calls: %q", i, id)
		}
		prev = id
	}
}

func TestGenerate_MonotonicMillis(t *testing.T) {
	var last int64
	for i := 0; i < 1000; i++ {
		id := Generate("CGR")
		parts := strings.Split(id, "-")
		millis, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			t.Fatalf("bad millis component in %q: %v", id, err)
		}
		if millis < last {
			t.Fatalf("millis went backwards: %d after %d", millis, last)
		}
		last = millis
	}
}

func TestNewEventID(t *testing.T) {
	pattern := regexp.MustCompile(`^evt-[a-zA-Z0-9]{10}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id, err := NewEventID()
		if err != nil {
			t.Fatalf("NewEventID: %v", err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("NewEventID = %q, unexpected shape", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate event id %q", id)
		}
		seen[id] = struct{}{}
	}
}
