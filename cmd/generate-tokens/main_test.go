package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fhuszti/recordings-ms-go/internal/mock"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

func run(t *testing.T, issuer *mock.MockTokenIssuer, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(issuer)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateTokens_Root(t *testing.T) {
	tok := uuid.NewUUID()
	issuer := &mock.MockTokenIssuer{Out: []uuid.UUID{tok}}

	out, err := run(t, issuer, "--count", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issuer.Parents) != 1 || issuer.Parents[0] != nil {
		t.Errorf("parents = %v; want one nil parent", issuer.Parents)
	}
	if strings.TrimSpace(out) != tok.String() {
		t.Errorf("output = %q", out)
	}
}

func TestGenerateTokens_ForRecordings(t *testing.T) {
	a, b := uuid.NewUUID(), uuid.NewUUID()
	issuer := &mock.MockTokenIssuer{Out: []uuid.UUID{uuid.NewUUID(), uuid.NewUUID()}}

	out, err := run(t, issuer, "-n", "2", a.String(), b.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issuer.GotN != 2 {
		t.Errorf("n = %d; want 2", issuer.GotN)
	}
	if len(issuer.Parents) != 2 || *issuer.Parents[0] != a || *issuer.Parents[1] != b {
		t.Errorf("parents = %v", issuer.Parents)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 4 {
		t.Errorf("printed %d tokens; want 4", len(lines))
	}
}

func TestGenerateTokens_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		issuer *mock.MockTokenIssuer
		args   []string
	}{
		{"invalid id", &mock.MockTokenIssuer{}, []string{"not-a-uuid"}},
		{"zero count", &mock.MockTokenIssuer{}, []string{"--count", "0"}},
		{"issuer fails", &mock.MockTokenIssuer{Err: boom}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := run(t, tc.issuer, tc.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGenerateTokens_PrintsPartialBatch(t *testing.T) {
	tok := uuid.NewUUID()
	issuer := &mock.MockTokenIssuer{Out: []uuid.UUID{tok}, Err: errors.New("boom")}

	out, err := run(t, issuer)
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.TrimSpace(out) != tok.String() {
		t.Errorf("output = %q; want the token issued before the failure", out)
	}
}
