package task

import (
	"testing"
	"time"
)

func TestEncodeJoinsFieldsInOrder(t *testing.T) {
	line := Encode(Task{
		ID:       "ignored",
		Text:     "Buy milk",
		Priority: PriorityHigh,
		DueDate:  "2024-01-01",
		Status:   StatusPending,
	})
	if line != "Buy milk|High|2024-01-01|Pending" {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestDecodeAcceptsExactlyFourFields(t *testing.T) {
	got, ok := Decode("Buy milk|High|2024-01-01|Pending\n")
	if !ok {
		t.Fatalf("expected well-formed line to decode")
	}
	if got.Text != "Buy milk" || got.Priority != PriorityHigh || got.DueDate != "2024-01-01" || got.Status != StatusPending {
		t.Fatalf("unexpected task %+v", got)
	}
	if got.ID != "" {
		t.Fatalf("decoded tasks carry no id, got %q", got.ID)
	}
	for _, line := range []string{"", "only|two", "a|b|c", "a|b|c|d|e"} {
		if _, ok := Decode(line); ok {
			t.Fatalf("line %q should be rejected", line)
		}
	}
}

func TestDecodeKeepsUnknownValuesVerbatim(t *testing.T) {
	got, ok := Decode("Call Bob|Urgent|someday|Waiting")
	if !ok {
		t.Fatalf("four fields must decode")
	}
	if got.Priority != Priority("Urgent") || got.Status != Status("Waiting") || got.DueDate != "someday" {
		t.Fatalf("values should be kept as written, got %+v", got)
	}
	if _, ok := got.Due(); ok {
		t.Fatalf("unparseable date should report !ok")
	}
}

func TestSeparatorInTextBreaksDecode(t *testing.T) {
	line := Encode(Task{Text: "a|b", Priority: PriorityLow, DueDate: "2024-02-02", Status: StatusPending})
	if _, ok := Decode(line); ok {
		t.Fatalf("text with separator is expected to be lost on decode")
	}
}

func TestPriorityCycling(t *testing.T) {
	if PriorityHigh.Next() != PriorityMedium || PriorityLow.Next() != PriorityHigh {
		t.Fatalf("Next should walk High → Medium → Low → High")
	}
	if PriorityHigh.Prev() != PriorityLow || PriorityMedium.Prev() != PriorityHigh {
		t.Fatalf("Prev should walk backwards with wrap-around")
	}
	if p, ok := ParsePriority(" medium "); !ok || p != PriorityMedium {
		t.Fatalf("ParsePriority(medium) = %q, %v", p, ok)
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Fatalf("unknown priority should not parse")
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.Local)
	pending := Task{DueDate: "2024-03-09", Status: StatusPending}
	if !pending.Overdue(now) {
		t.Fatalf("yesterday's pending task should be overdue")
	}
	today := Task{DueDate: "2024-03-10", Status: StatusPending}
	if today.Overdue(now) {
		t.Fatalf("a task due today is not overdue")
	}
	done := Task{DueDate: "2024-03-01", Status: StatusCompleted}
	if done.Overdue(now) {
		t.Fatalf("completed tasks are never overdue")
	}
}
