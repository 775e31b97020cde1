package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/cli/clitest"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/events"
	"github.com/julianstephens/habitlog/internal/tokens"
)

func TestRegisterAndLogin(t *testing.T) {
	env := clitest.New(t)

	reg := &RegisterCmd{Username: "ana", Password: "s3cret", Login: true}
	if err := reg.Run(env.Ctx); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	out := env.Out.String()
	if !strings.Contains(out, "Registered ana") || !strings.Contains(out, "Logged in as ana") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !env.Ctx.Session.Authenticated() {
		t.Error("session not authenticated after login")
	}
	if tokens.AccessToken(env.Ctx.Tokens) == "" {
		t.Error("access token not stored")
	}
	if v, _ := env.Ctx.DB.GetSetting(constants.SettingLastLogin); v != "ana" {
		t.Errorf("last login = %q, want ana", v)
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	env := clitest.New(t)
	env.Server.AddUser("ana", "s3cret")
	env.Prompter.Passwords = []string{"s3cret"}

	if err := (&LoginCmd{Username: "ana"}).Run(env.Ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(env.Prompter.Asked) != 1 || !strings.Contains(env.Prompter.Asked[0], "ana") {
		t.Errorf("unexpected prompts: %v", env.Prompter.Asked)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := clitest.New(t)
	env.Server.AddUser("ana", "s3cret")

	err := (&LoginCmd{Username: "ana", Password: "nope"}).Run(env.Ctx)
	if api.StatusCode(err) != 401 {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if env.Ctx.Session.Authenticated() {
		t.Error("session authenticated after failed login")
	}
}

func TestLogout(t *testing.T) {
	env := clitest.Authenticated(t)

	var reasons []events.Reason
	env.Ctx.Session.OnLogout(func(r events.Reason) { reasons = append(reasons, r) })

	if err := (&LogoutCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if env.Ctx.Session.Authenticated() {
		t.Error("session still authenticated")
	}
	pair, _ := env.Ctx.Tokens.Get()
	if !pair.Empty() {
		t.Errorf("tokens not cleared: %+v", pair)
	}
	if len(reasons) != 1 || reasons[0] != events.ReasonExplicit {
		t.Errorf("reasons = %v, want [explicit]", reasons)
	}
}

func TestStatusCmd(t *testing.T) {
	t.Run("logged out", func(t *testing.T) {
		env := clitest.New(t)
		if err := (&StatusCmd{}).Run(env.Ctx); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(env.Out.String(), "Not logged in.") {
			t.Errorf("unexpected output: %q", env.Out.String())
		}
	})

	t.Run("opaque token", func(t *testing.T) {
		env := clitest.Authenticated(t)
		if err := (&StatusCmd{}).Run(env.Ctx); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		out := env.Out.String()
		for _, want := range []string{"Logged in", "Token backend: file", "opaque", "Refresh token: stored"} {
			if !strings.Contains(out, want) {
				t.Errorf("status output missing %q:\n%s", want, out)
			}
		}
	})
}

func TestDescribeExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		claims tokens.Claims
		want   string
	}{
		{"no expiry", tokens.Claims{}, "no expiry"},
		{"valid", tokens.Claims{ExpiresAt: now.Add(5 * time.Minute)}, "valid for 5m0s"},
		{"expired", tokens.Claims{ExpiresAt: now.Add(-90 * time.Second)}, "expired 1m30s ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeExpiry(tt.claims, now); !strings.HasPrefix(got, tt.want) {
				t.Errorf("describeExpiry() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestStatusCmdReadsJWTExpiry(t *testing.T) {
	env := clitest.Authenticated(t)
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	pair, _ := env.Ctx.Tokens.Get()
	pair.Access = access
	if err := env.Ctx.Tokens.Set(pair); err != nil {
		t.Fatalf("failed to store token: %v", err)
	}

	if err := (&StatusCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "User ID:       7") || !strings.Contains(out, "valid for") {
		t.Errorf("unexpected status output:\n%s", out)
	}
}
