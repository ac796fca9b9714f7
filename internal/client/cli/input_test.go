package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		leftover string
	}{
		{"terminator", "a\nb\n.\nnext\n", "a\nb", "next\n"},
		{"blank lines and indentation kept", "# Title\n\n  indented para\ndelete abc\n\n.\nlist\n", "# Title\n\n  indented para\ndelete abc\n", "list\n"},
		{"crlf", "a\r\nb\r\n.\r\n", "a\nb", ""},
		{"eof ends input", "a\n\nb", "a\n\nb", ""},
		{"empty content", ".\n", "", ""},
		{"dot inside a line", " .\n..\n.\n", " .\n..", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := bufio.NewReader(strings.NewReader(tt.input))
			var out bytes.Buffer
			got, err := GetMultiline(in, "Enter text", &out)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			rest, _ := io.ReadAll(in)
			if string(rest) != tt.leftover {
				t.Fatalf("leftover %q, want %q", rest, tt.leftover)
			}
		})
	}
}

func TestGetMultiline_EmptyInputIsEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer
	if _, err := GetMultiline(in, "Enter text", &out); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}
