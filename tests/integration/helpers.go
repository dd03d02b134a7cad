//go:build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"testing"
)

// Environment read by the integration suite.
const (
	envGateway   = "OCBOT_INTEGRATION_GATEWAY"
	envToken     = "OCBOT_INTEGRATION_TOKEN"
	envBot       = "OCBOT_INTEGRATION_BOT"
	envChat      = "OCBOT_INTEGRATION_CHAT"
	envCommunity = "OCBOT_INTEGRATION_COMMUNITY"
	envSkip      = "OCBOT_SKIP_INTEGRATION"
)

// isCI reports whether the tests run under a CI system.
func isCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI", "TRAVIS", "JENKINS_URL"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// requireEnv returns the value of name. A missing value skips the test
// locally and fails it in CI unless OCBOT_SKIP_INTEGRATION is set.
func requireEnv(t *testing.T, name string) string {
	t.Helper()
	v := os.Getenv(name)
	if v != "" {
		return v
	}
	if isCI() && os.Getenv(envSkip) == "" {
		t.Fatalf("%s not set (CI environment detected; set %s=1 to skip)", name, envSkip)
	}
	t.Skipf("%s not set", name)
	return ""
}

// liveTarget is the gateway and chat the suite acts on.
type liveTarget struct {
	Gateway string
	Token   string
	Bot     string
	Chat    string
}

func requireTarget(t *testing.T) liveTarget {
	t.Helper()
	return liveTarget{
		Gateway: requireEnv(t, envGateway),
		Token:   requireEnv(t, envToken),
		Bot:     requireEnv(t, envBot),
		Chat:    requireEnv(t, envChat),
	}
}

type cliResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runCLI runs the prebuilt binary with an isolated HOME so the developer's
// keystore and config are never touched.
func runCLI(t *testing.T, env []string, stdin string, args ...string) cliResult {
	t.Helper()
	if cliBinary == "" {
		t.Fatal("CLI binary not built - TestMain may not have run")
	}

	cmd := exec.Command(cliBinary, args...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir(), "OCBOT_KEYSTORE_PASSPHRASE=integration")
	cmd.Env = append(cmd.Env, env...)
	if stdin != "" {
		cmd.Stdin = bytes.NewBufferString(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("Failed to run CLI: %v", err)
		}
		exitCode = exitErr.ExitCode()
	}

	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode}
}

// liveEnv points the CLI at the target gateway.
func (lt liveTarget) liveEnv() []string {
	return []string{
		"OCBOT_TOKEN=" + lt.Token,
		"OCBOT_BASE_URL=" + lt.Gateway,
		"OCBOT_BOT_ID=" + lt.Bot,
		"OCBOT_RUNTIME=httpapi",
	}
}
