package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/database"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "应用全部未执行的迁移",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			status, err := a.migrate()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%v\n", status.Version, status.Dirty)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "回滚最近一次迁移",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return database.RollbackMigration(sqlDB, a.logger)
		},
	})

	return cmd
}

func newSeedCmd(configPath *string) *cobra.Command {
	var from, to string
	var horizon int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "批量生成时间段（默认当前自然年）",
		Example: "  drugmgmt seed\n" +
			"  drugmgmt seed --from 2025-09-01 --to 2025-12-31\n" +
			"  drugmgmt seed --horizon 60",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (from == "") != (to == "") {
				return fmt.Errorf("--from 与 --to 必须同时提供")
			}

			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.initServices(); err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			var r *dto.SeedResponse
			switch {
			case from != "":
				var f, t time.Time
				if f, err = time.Parse(service.DateLayout, from); err != nil {
					return fmt.Errorf("--from 格式应为 YYYY-MM-DD: %w", err)
				}
				if t, err = time.Parse(service.DateLayout, to); err != nil {
					return fmt.Errorf("--to 格式应为 YYYY-MM-DD: %w", err)
				}
				r, err = a.svc.Slot.SeedSlots(ctx, f, t)
			case horizon > 0:
				r, err = a.svc.Slot.SyncHorizon(ctx, horizon)
			default:
				r, err = a.svc.Slot.SeedCurrentYear(ctx)
			}
			if err != nil {
				return err
			}

			a.logger.Info("时间段生成完成",
				zap.String("from", r.From),
				zap.String("to", r.To),
				zap.Int64("inserted", r.Inserted),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s ~ %s: inserted=%d\n", r.From, r.To, r.Inserted)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "起始日期 YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "结束日期 YYYY-MM-DD（含）")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "从今天起补齐的天数")
	return cmd
}

func newTruncateCmd(configPath *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "truncate",
		Short: "清空全部预约与时间段",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("该操作不可恢复，请加 --yes 确认")
			}

			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.initServices(); err != nil {
				return err
			}

			r, err := a.svc.Slot.ClearSlots(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bookings=%d slots=%d\n", r.Bookings, r.Slots)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "确认清空")
	return cmd
}
