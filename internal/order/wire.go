package order

import (
	"database/sql"

	"go.uber.org/zap"

	"samovar/internal/config"
	"samovar/internal/infrastructure/metrics"
	"samovar/internal/order/controller"
	orderrepo "samovar/internal/order/repository"
	"samovar/internal/order/service"
	"samovar/internal/order/usecase"
	productrepo "samovar/internal/product/repository"
)

type Module struct {
	Orders *controller.OrderController
	Sweep  *controller.SweepController
}

func NewModule(db *sql.DB, cfg *config.Config, publisher service.EventPublisher, sweepMetrics *metrics.SweepMetrics, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	itemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	productRepo := productrepo.NewMySQLProductRepository(db)

	checkoutSvc := service.NewCheckoutService(
		db,
		orderRepo,
		itemRepo,
		productRepo,
		publisher,
		cfg.Order.DeliveryFee,
		logger,
	)
	statusSvc := service.NewStatusService(orderRepo, logger)
	querySvc := service.NewOrderQueryService(orderRepo, itemRepo)
	sweepSvc := service.NewSweepService(orderRepo, sweepMetrics, logger)

	placeOrderUC := usecase.NewPlaceOrderUseCase(checkoutSvc, logger)

	return &Module{
		Orders: controller.NewOrderController(placeOrderUC, querySvc, statusSvc, logger),
		Sweep:  controller.NewSweepController(sweepSvc, logger),
	}
}
