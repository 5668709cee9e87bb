package cli

import (
	"github.com/spf13/cobra"

	"github.com/jfuerlinger/DrugManagement/internal/worker"
)

func newWorkerCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "启动后台任务（队列消费与定时同步时间段）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.initServices(); err != nil {
				return err
			}
			w, err := worker.New(a.cfg, a.svc, a.logger.Named("worker"))
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()
			return w.Run(ctx)
		},
	}
}
