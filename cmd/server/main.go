package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"

	amqpadapter "github.com/roomsync/roomsync-backend/internal/adapter/amqp"
	grpcadapter "github.com/roomsync/roomsync-backend/internal/adapter/grpc"
	"github.com/roomsync/roomsync-backend/internal/adapter/repository/memory"
	"github.com/roomsync/roomsync-backend/internal/adapter/repository/postgres"
	"github.com/roomsync/roomsync-backend/internal/config"
	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/logging"
	"github.com/roomsync/roomsync-backend/internal/usecase/billing"
	"github.com/roomsync/roomsync-backend/internal/usecase/contribution"
	"github.com/roomsync/roomsync-backend/internal/usecase/dashboard"
	"github.com/roomsync/roomsync-backend/internal/usecase/expense"
	"github.com/roomsync/roomsync-backend/internal/usecase/meal"
	"github.com/roomsync/roomsync-backend/internal/usecase/member"
	"github.com/roomsync/roomsync-backend/internal/usecase/seeder"
)

// repositories groups the ports of the selected backend
type repositories struct {
	members       domain.MemberRepository
	contributions domain.ContributionRepository
	expenses      domain.ExpenseRepository
	meals         domain.MealRepository
	close         func() error
}

func main() {
	// 1. Configuration and logging
	cfg := config.Load()
	logger := logging.New(os.Stdout, logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", logging.FieldError, err)
		os.Exit(1)
	}

	// run returns before exiting so its deferred cleanup always happens
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Server stopped with error", logging.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// 2. Initialize Repositories
	repos, err := openRepositories(ctx, cfg, logging.WithComponent(logger, logging.ComponentStorage))
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer repos.close()

	// 3. Event publisher (optional)
	var events domain.EventPublisher
	if cfg.AMQPURL != "" {
		publisher, err := amqpadapter.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logging.WithComponent(logger, logging.ComponentAMQP))
		if err != nil {
			return fmt.Errorf("connect to AMQP broker: %w", err)
		}
		defer publisher.Close()
		events = publisher
		logger.Info("Publishing ledger events", "exchange", cfg.AMQPExchange)
	}

	// 4. Initialize Services (Use Cases)
	billingService := billing.NewBillingService(repos.members, repos.contributions, repos.expenses, repos.meals)
	memberService := member.NewMemberService(repos.members)
	contributionService := contribution.NewContributionService(repos.members, repos.contributions, billingService, events)
	expenseService := expense.NewExpenseService(repos.members, repos.expenses, events)
	mealService := meal.NewMealService(repos.members, repos.meals, events)
	dashboardService := dashboard.NewDashboardService(repos.contributions, repos.expenses, dashboard.Options{
		CacheTTL:      cfg.CacheTTL,
		MonthsBack:    cfg.MonthsBack,
		MonthsForward: cfg.MonthsForward,
	})

	// Ensure the household has its bootstrap manager
	manager, err := seeder.NewHouseholdSeeder(repos.members, cfg.ManagerName, cfg.ManagerEmail).Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed household manager: %w", err)
	}
	logger.Info("Household manager ready", "member_id", manager.ID, "name", manager.Name)

	// 5. Start gRPC Server
	grpcLogger := logging.WithComponent(logger, logging.ComponentGRPC)
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(grpcLogger),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)

	grpcAdapter := grpcadapter.NewServer(memberService, contributionService, expenseService, mealService, billingService, dashboardService)
	grpcadapter.RegisterLedgerServiceServer(grpcServer, grpcAdapter)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr, "backend", cfg.DataBackend)
		serveErr <- grpcServer.Serve(lis)
	}()

	// Graceful shutdown
	return waitForShutdown(logger, grpcServer, serveErr)
}

// openRepositories connects the configured backend; postgres is migrated before use
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.DataBackend == config.BackendMemory {
		store := memory.NewStore()
		logger.Warn("Using in-memory storage; data is lost on restart")
		return &repositories{
			members:       store.Members(),
			contributions: store.Contributions(),
			expenses:      store.Expenses(),
			meals:         store.Meals(),
			close:         func() error { return nil },
		}, nil
	}

	// Give Postgres a moment when started alongside it (simple retry)
	time.Sleep(cfg.DBStartupDelay)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.NewDB(pingCtx, cfg.DBConnStr)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Database schema up to date")

	return &repositories{
		members:       postgres.NewMemberRepository(db),
		contributions: postgres.NewContributionRepository(db),
		expenses:      postgres.NewExpenseRepository(db),
		meals:         postgres.NewMealRepository(db),
		close:         db.Close,
	}, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server.
// A serve failure ends the wait early and is returned.
func waitForShutdown(logger *slog.Logger, grpcServer *grpclib.Server, serveErr <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down gracefully", "signal", sig.String())
	case err := <-serveErr:
		return fmt.Errorf("serve gRPC: %w", err)
	}

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
	return nil
}
