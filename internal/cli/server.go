package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jfuerlinger/DrugManagement/internal/api/handler"
	"github.com/jfuerlinger/DrugManagement/internal/api/router"
	"github.com/jfuerlinger/DrugManagement/pkg/redis"
	"github.com/jfuerlinger/DrugManagement/pkg/validation"
)

func newServerCmd(configPath *string) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return runServer(a, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "启动前执行数据库迁移")
	return cmd
}

func runServer(a *app, autoMigrate bool) error {
	logger := a.logger
	logger.Info("应用启动中...",
		zap.Int("port", a.cfg.Server.Port),
		zap.String("log_level", a.cfg.Log.Level),
	)

	if autoMigrate {
		if _, err := a.migrate(); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	if err := validation.RegisterGinValidators(); err != nil {
		return fmt.Errorf("注册校验规则失败: %w", err)
	}

	// Redis 仅用于限流，连接失败时降级为进程内限流
	rdb, err := redis.NewClient(&a.cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，预约接口改用进程内限流", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	if err := a.initServices(); err != nil {
		return err
	}
	h := handler.NewHandler(a.svc, a.migrator())
	engine := router.Setup(a.cfg, h, rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signalContext()
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP 服务器异常: %w", err)
		}
	case <-ctx.Done():
		logger.Info("收到关闭信号，开始优雅关闭...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
	return nil
}
