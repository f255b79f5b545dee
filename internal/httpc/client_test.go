package httpc

import (
	"net/http"
	"testing"
	"time"
)

func TestNewClientTimeout(t *testing.T) {
	c := NewClient(5 * time.Second)
	if c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport = %T, want *http.Transport", c.Transport)
	}
	if tr.IdleConnTimeout != DefaultIdleConnTimeout {
		t.Errorf("IdleConnTimeout = %v, want %v", tr.IdleConnTimeout, DefaultIdleConnTimeout)
	}
}

func TestSharedClientDefaults(t *testing.T) {
	if Client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", Client.Timeout, DefaultTimeout)
	}
	if Client == http.DefaultClient {
		t.Error("shared client must not be http.DefaultClient")
	}
}
