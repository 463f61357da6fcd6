package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/cgmis/guidance/internal/cli"
	"github.com/cgmis/guidance/internal/pkg/auth"
)

func TestHashPassword(t *testing.T) {
	c := qt.New(t)
	auth.BcryptCost = 4

	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hash-password", "staff123"})

	c.Assert(cmd.ExecuteContext(context.Background()), qt.IsNil)
	hash := strings.TrimSpace(out.String())
	c.Assert(hash, qt.Matches, `\$2a\$04\$.+`)
	c.Assert(auth.CheckPassword(hash, "staff123"), qt.IsTrue)
}

func TestHashPasswordRequiresOneArgument(t *testing.T) {
	c := qt.New(t)

	cmd := cli.NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"hash-password"})

	c.Assert(cmd.ExecuteContext(context.Background()), qt.ErrorMatches, `accepts 1 arg\(s\), received 0`)
}

func TestMigrateFailsOnInvalidConfig(t *testing.T) {
	c := qt.New(t)
	c.Setenv("JWT_SECRET", "")

	dir := c.TempDir()
	cmd := cli.NewRootCommand()
	cmd.SetArgs([]string{
		"migrate",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--env-file", filepath.Join(dir, "missing.env"),
	})

	err := cmd.ExecuteContext(context.Background())
	c.Assert(err, qt.ErrorMatches, `invalid configuration: JWT secret is required`)
}
