package utils

import "testing"

func TestHash(t *testing.T) {
	got := Hash("")
	if got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("unexpected digest %s", got)
	}
	if Hash("whey") == Hash("Whey") {
		t.Fatal("hash is case insensitive")
	}
}
