package console

import (
	"testing"
)

func TestSpeakerSay(t *testing.T) {
	var got []string
	s := &Speaker{command: "espeak", rate: 120, available: true}
	s.run = func(name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}

	s.Say("hello there")
	want := []string{"espeak", "-s", "120", "hello there"}
	if len(got) != len(want) {
		t.Fatalf("ran %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSpeakerUnavailableIsNoop(t *testing.T) {
	ran := false
	s := &Speaker{command: "espeak", available: false}
	s.run = func(string, ...string) error { ran = true; return nil }

	s.Say("hello")
	if ran {
		t.Error("unavailable speaker should not run anything")
	}
}

func TestSpeakerSkipsEmptyText(t *testing.T) {
	ran := false
	s := &Speaker{command: "espeak", available: true}
	s.run = func(string, ...string) error { ran = true; return nil }

	s.Say("")
	if ran {
		t.Error("empty text should not be spoken")
	}
}

func TestSpeakerDefaultRateOmitsFlag(t *testing.T) {
	var got []string
	s := &Speaker{command: "espeak", available: true}
	s.run = func(name string, args ...string) error {
		got = args
		return nil
	}

	s.Say("hi")
	if len(got) != 1 || got[0] != "hi" {
		t.Errorf("args = %v, want just the text", got)
	}
}
