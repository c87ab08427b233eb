package auth

import "testing"

func testPolicy() Policy {
	return Policy{
		UsernameMaxLength: 20,
		PasswordMinLength: 0,
		PasswordMaxLength: 20,
		AllowedTLDs:       []string{"com", "net", "ca"},
		MaxDomainSegments: 2,
	}
}

func TestAllowEmailDomain(t *testing.T) {
	p := testPolicy()

	cases := []struct {
		email string
		want  bool
	}{
		{"alice@test.com", true},
		{"bob@example.net", true},
		{"carol@school.ca", true},
		{"dave@test.org", false},
		{"erin@mail.example.com", false}, // three domain segments
		{"frank@test", false},
		{"no-at-sign", false},
		{"gina@TEST.COM", true},
	}
	for _, tc := range cases {
		if got := p.allowEmailDomain(tc.email); got != tc.want {
			t.Errorf("allowEmailDomain(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestAllowEmailDomainConfigurable(t *testing.T) {
	p := testPolicy()
	p.AllowedTLDs = []string{"org"}
	p.MaxDomainSegments = 3

	if !p.allowEmailDomain("a@mail.example.org") {
		t.Error("expected three-segment .org address to pass with widened policy")
	}
	if p.allowEmailDomain("a@example.com") {
		t.Error("expected .com address to fail when only .org is allowed")
	}
}

func TestCheckSignUp(t *testing.T) {
	p := testPolicy()

	cases := []struct {
		name string
		form SignUpForm
		want []string
	}{
		{"valid", SignUpForm{Username: "alice", Password: "pw12345", Email: "alice@test.com"}, nil},
		{"long username", SignUpForm{Username: "abcdefghijklmnopqrstu", Password: "pw"}, []string{"username"}},
		{"long password", SignUpForm{Username: "alice", Password: "abcdefghijklmnopqrstu"}, []string{"password"}},
		{"both too long", SignUpForm{Username: "abcdefghijklmnopqrstu", Password: "abcdefghijklmnopqrstu"}, []string{"username", "password"}},
		// 下限なしの既定ポリシーでは1文字パスワードも通る
		{"short password allowed by default", SignUpForm{Username: "alice", Password: "x"}, nil},
	}
	for _, tc := range cases {
		got := p.CheckSignUp(&tc.form)
		if len(got) != len(tc.want) {
			t.Errorf("%s: CheckSignUp = %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: CheckSignUp = %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}
}

func TestCheckSignUpMinLength(t *testing.T) {
	p := testPolicy()
	p.PasswordMinLength = 8

	if fields := p.CheckSignUp(&SignUpForm{Username: "alice", Password: "short"}); len(fields) != 1 || fields[0] != "password" {
		t.Fatalf("CheckSignUp = %v, want [password]", fields)
	}
	if fields := p.CheckSignUp(&SignUpForm{Username: "alice", Password: "longenough"}); len(fields) != 0 {
		t.Fatalf("CheckSignUp = %v, want no violations", fields)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []string{"username", "email"}}
	want := "invalid credentials: username, email"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
