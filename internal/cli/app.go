package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/config"
	"github.com/jfuerlinger/DrugManagement/internal/api/handler"
	"github.com/jfuerlinger/DrugManagement/internal/dto"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
	"github.com/jfuerlinger/DrugManagement/internal/service"
	"github.com/jfuerlinger/DrugManagement/pkg/database"
	applogger "github.com/jfuerlinger/DrugManagement/pkg/logger"
	"github.com/jfuerlinger/DrugManagement/pkg/queue"
)

// app 各子命令共用的依赖
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	publisher *queue.Publisher // queue.enabled=false 时为 nil
	svc       *service.Service
}

// bootstrap 加载配置、初始化日志并连接数据库
func bootstrap(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Sync()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

// initServices 依赖注入: Repository → Service
func (a *app) initServices() error {
	var deps service.Dependencies
	if a.cfg.Queue.Enabled {
		a.publisher = queue.NewPublisher(&a.cfg.Redis, &a.cfg.Queue, a.logger.Named("queue"))
		deps.Notifier = a.publisher
		deps.ReportQueue = a.publisher
	}

	svc, err := service.NewService(a.cfg, repository.NewRepository(a.db), deps, a.logger)
	if err != nil {
		return fmt.Errorf("初始化服务失败: %w", err)
	}
	a.svc = svc
	return nil
}

// migrator 供管理接口调用的迁移函数
func (a *app) migrator() handler.Migrator {
	return func(context.Context) (*dto.MigrationResponse, error) {
		status, err := a.migrate()
		if err != nil {
			return nil, err
		}
		return &dto.MigrationResponse{Version: status.Version, Dirty: status.Dirty}, nil
	}
}

func (a *app) migrate() (*database.MigrationStatus, error) {
	sqlDB, err := a.db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return database.RunMigrations(sqlDB, a.logger)
}

func (a *app) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("关闭任务发布者失败", zap.Error(err))
		}
	}
	database.Close(a.db)
	a.logger.Sync()
}

// signalContext 收到 SIGINT/SIGTERM 时取消
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
