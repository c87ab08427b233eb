package user

import (
	"errors"
	"testing"
)

func TestClassifySingleMatch(t *testing.T) {
	u, err := classify([]User{{ID: "u-1", Username: "alice", Email: "alice@test.com"}})
	if err != nil {
		t.Fatalf("classify returned error: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	if _, err := classify(nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClassifyAmbiguousMatch(t *testing.T) {
	users := []User{
		{ID: "u-1", Email: "alice@test.com"},
		{ID: "u-2", Email: "alice@test.com"},
	}
	// 0件と2件以上は別のエラーとして区別し、潰すかどうかは呼び出し側が決める
	if _, err := classify(users); !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("err = %v, want ErrAmbiguous", err)
	}
}
