package cli

import (
	"bytes"
	"strings"
	"testing"
)

func execute(args ...string) (string, error) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	want := []string{"server", "worker", "migrate", "seed", "truncate", "version"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("缺少子命令 %s", name)
		}
	}
	if cmd, _, err := root.Find([]string{"migrate", "down"}); err != nil || cmd.Name() != "down" {
		t.Error("缺少 migrate down")
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute("version")
	if err != nil {
		t.Fatalf("version 应成功: %v", err)
	}
	if !strings.Contains(out, "drugmgmt dev") {
		t.Errorf("输出不正确: %q", out)
	}
}

func TestSeedCmd_RequiresBothBounds(t *testing.T) {
	_, err := execute("seed", "--from", "2025-09-01")
	if err == nil || !strings.Contains(err.Error(), "--to") {
		t.Errorf("只提供 --from 时应报错，实际: %v", err)
	}
}

func TestTruncateCmd_RequiresConfirmation(t *testing.T) {
	_, err := execute("truncate")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("未确认时应报错，实际: %v", err)
	}
}
