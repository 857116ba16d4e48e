package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/mail"
	"storefront/internal/infra/notify"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.GoEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	//DB接続
	gormDB, err := db.Connect(cfg.DSN(), log)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	packRepo := infraRepo.NewPackGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	invoiceRepo := infraRepo.NewInvoiceGormRepository(gormDB)
	feeRepo := infraRepo.NewDeliveryFeeGormRepository(gormDB)
	settingRepo := infraRepo.NewSettingGormRepository(gormDB)
	templateRepo := infraRepo.NewEmailTemplateGormRepository(gormDB)
	notificationRepo := infraRepo.NewNotificationGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	tx := infraRepo.NewTxManagerGorm(gormDB)

	templateUC := usecase.NewEmailTemplateUsecase(templateRepo)
	if err := templateUC.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed email templates: %w", err)
	}

	//メール送信（SMTP未設定ならログに出すだけ）
	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		mailer = mail.NewLogMailer(log)
	}

	channels := []notify.Channel{
		notify.NewMailChannel(templateRepo, mailer),
		notify.NewDatabaseChannel(notificationRepo),
	}

	//通知：RabbitMQがあればキュー経由、無ければその場で配る
	var dispatcher notify.Dispatcher
	if cfg.RabbitMQURL != "" {
		rmq, err := notify.NewRabbitMQ(cfg.RabbitMQURL, cfg.NotifyExchange, cfg.NotifyQueue)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer rmq.Close()

		if err := rmq.SetupQueues(); err != nil {
			return fmt.Errorf("rabbitmq setup: %w", err)
		}
		dispatcher = notify.NewAMQPPublisher(rmq.Channel, rmq.Exchange)

		consumeCh, err := rmq.OpenConsumerChannel()
		if err != nil {
			return fmt.Errorf("rabbitmq consumer channel: %w", err)
		}
		consumer := notify.NewConsumer(log, channels...)
		go func() {
			if err := consumer.Run(ctx, consumeCh, rmq.Queue); err != nil {
				log.WithError(err).Error("notification consumer stopped")
			}
		}()
	} else {
		dispatcher = notify.NewDirect(log, channels...)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg.JWTSecret, userRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, tx)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	packUC := usecase.NewPackUsecase(packRepo, productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo, packRepo, feeRepo)
	orderUC := usecase.NewOrderUsecase(tx, userRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(tx, dispatcher, log)
	invoiceUC := usecase.NewInvoiceUsecase(tx, invoiceRepo, orderRepo, usecase.InvoiceConfig{
		VATRate: cfg.VATRate,
		DueDays: cfg.InvoiceDueDays,
	})
	feeUC := usecase.NewDeliveryFeeUsecase(feeRepo)
	customerUC := usecase.NewCustomerUsecase(userRepo, orderRepo)
	settingUC := usecase.NewSettingUsecase(settingRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	e := server.New(cfg, log)
	server.RegisterRoutes(e, cfg, userRepo, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, notificationUC),
		Product:      handler.NewProductHandler(productUC, categoryUC, packUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC, invoiceUC),
		Setting:      handler.NewSettingHandler(feeUC, settingUC, templateUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, categoryUC, packUC),
		AdminInvoice: handler.NewAdminInvoiceHandler(invoiceUC),
		AdminUser:    handler.NewAdminUserHandler(cfg, userRepo, customerUC),
		AdminAudit:   handler.NewAdminAuditHandler(auditUC),
	})

	//Server起動
	addr := cfg.Port
	if addr == "" || addr[0] != ':' {
		addr = ":" + addr
	}
	return server.Start(ctx, e, addr, log)
}
