package protocol

import (
	"net"
	"testing"

	"github.com/resign-hr/directory/internal/core/domain"
)

func TestConn_LockStepValues(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cc := NewConn(client)
	sc := NewConn(server)

	done := make(chan error, 1)
	go func() {
		if err := cc.Send(TagLogin); err != nil {
			done <- err
			return
		}
		if err := cc.Send("alice"); err != nil {
			done <- err
			return
		}
		done <- cc.Send("Test123$")
	}()

	var tag Tag
	if err := sc.Receive(&tag); err != nil {
		t.Fatalf("receive tag: %v", err)
	}
	if tag != TagLogin {
		t.Fatalf("tag = %q, want %q", tag, TagLogin)
	}

	var username, password string
	if err := sc.Receive(&username); err != nil {
		t.Fatalf("receive username: %v", err)
	}
	if err := sc.Receive(&password); err != nil {
		t.Fatalf("receive password: %v", err)
	}
	if username != "alice" || password != "Test123$" {
		t.Fatalf("got (%q, %q)", username, password)
	}
	if err := <-done; err != nil {
		t.Fatalf("client send: %v", err)
	}
}

func TestConn_ResultRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cc := NewConn(client)
	sc := NewConn(server)

	sent := Result{
		OK: true,
		Users: []domain.UserSummary{
			{Username: "alice", PhoneNumber: "0791234567"},
			{Username: "default_hr", PhoneNumber: "0793175289"},
		},
	}

	go func() { _ = sc.Send(sent) }()

	var got Result
	if err := cc.Receive(&got); err != nil {
		t.Fatalf("receive result: %v", err)
	}
	if !got.OK || got.Code != "" {
		t.Fatalf("unexpected result envelope: %+v", got)
	}
	if len(got.Users) != 2 || got.Users[0] != sent.Users[0] || got.Users[1] != sent.Users[1] {
		t.Fatalf("users did not survive the round trip: %+v", got.Users)
	}
}

func TestConn_ErrResultCarriesCodeOnly(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cc := NewConn(client)
	sc := NewConn(server)

	go func() { _ = sc.Send(ErrResult(CodePermissionDenied)) }()

	var got Result
	if err := cc.Receive(&got); err != nil {
		t.Fatalf("receive result: %v", err)
	}
	if got.OK || got.Code != CodePermissionDenied || got.Users != nil {
		t.Fatalf("unexpected result: %+v", got)
	}
}
