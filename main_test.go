package main

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"rei/command"
	"rei/executor"
	"rei/fetcher"
	"rei/lineedit"
)

type stubFetcher struct {
	body  string
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, u *url.URL) (*fetcher.Response, error) {
	s.calls++
	if u.Host != "example.com" {
		return nil, errors.New("unable to fetch url")
	}
	return &fetcher.Response{URL: u, Status: 20, Meta: "text/gemini", Body: []byte(s.body)}, nil
}

func TestLoopRunsUntilQuit(t *testing.T) {
	f := &stubFetcher{body: "# Title\none\ntwo\n"}
	var out bytes.Buffer
	exec := executor.New(f, nil, nil, &out)
	in := lineedit.NewPlain(strings.NewReader("g example.com/\n%n\nbogus\nq\ng example.com/\n"), &out)

	if err := loop(context.Background(), in, command.NewParser(0), exec, "*"); err != nil {
		t.Fatalf("loop: %v", err)
	}

	want := "*16\n" +
		"*1\t# Title\n2\t\n3\tone\n4\ttwo\n" +
		"*?\n" +
		"*"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
	if f.calls != 1 {
		t.Errorf("expected input after q to be ignored, got %d fetches", f.calls)
	}
}

func TestLoopEndsAtEOF(t *testing.T) {
	var out bytes.Buffer
	exec := executor.New(&stubFetcher{}, nil, nil, &out)
	in := lineedit.NewPlain(strings.NewReader("g other.example/\n"), &out)

	if err := loop(context.Background(), in, command.NewParser(0), exec, "> "); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if out.String() != "> unable to fetch url\n> " {
		t.Errorf("unexpected output %q", out.String())
	}
}
