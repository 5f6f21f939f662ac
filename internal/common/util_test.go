package common

import "testing"

func TestWipeByteArray(t *testing.T) {
	b := []byte("s3cr3t-password")
	WipeByteArray(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not wiped: %v", i, v)
		}
	}
}

func TestWipeByteArray_NilIsSafe(t *testing.T) {
	WipeByteArray(nil)
}
