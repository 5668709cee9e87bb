package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

// NewRootCmd 构建命令树
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "drugmgmt",
		Short:         "药品管理与预约服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")

	root.AddCommand(newServerCmd(&configPath))
	root.AddCommand(newWorkerCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newSeedCmd(&configPath))
	root.AddCommand(newTruncateCmd(&configPath))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute 入口
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "drugmgmt %s (%s)\n", Version, CommitSHA)
		},
	}
}
