package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPromptText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("demo\n"))
	var out bytes.Buffer
	got, err := promptText(in, "Username", &out)
	if err != nil || got != "demo" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if !strings.Contains(out.String(), "Username") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestPromptTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := promptText(in, "Username", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestPromptPasswordError(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := promptPassword("Password", &out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestPromptPasswordStubbed(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte("secret"), nil
	}
	var out bytes.Buffer
	got, err := promptPassword("Password", &out)
	if err != nil || got != "secret" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}
