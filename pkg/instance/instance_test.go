package instance

import "testing"

func TestGetIDPrecedence(t *testing.T) {
	t.Setenv("STOREFRONT_INSTANCE_ID", "")
	t.Setenv("DYNO", "")
	if got := GetID(); got != "local" {
		t.Fatalf("expected local, got %q", got)
	}
	t.Setenv("DYNO", "web.1")
	if got := GetID(); got != "web.1" {
		t.Fatalf("expected dyno id, got %q", got)
	}
	t.Setenv("STOREFRONT_INSTANCE_ID", "sf-2")
	if got := GetID(); got != "sf-2" {
		t.Fatalf("expected explicit id, got %q", got)
	}
}
