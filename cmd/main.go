package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/tropay/tenant-service/internal/app"
	"github.com/tropay/tenant-service/internal/config"
	"github.com/tropay/tenant-service/internal/constants"
	"github.com/tropay/tenant-service/internal/controllers"
	"github.com/tropay/tenant-service/internal/routes"
	"github.com/tropay/tenant-service/internal/services"
	"github.com/tropay/tenant-service/shared/go-middleware"
	"github.com/tropay/tenant-service/shared/go-utils"
	_ "time/tzdata"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize tenant-service:", err)
	}
	defer application.Close()

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(context.Background(), application); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	repos := application.Repos

	// Services
	notifier := services.NewNotificationService(cfg)
	gateway := services.NewStripeGateway(cfg)
	dispatcher := services.NewNavigationDispatcher(repos.Profiles)
	dashboardService := services.NewDashboardService(repos.Profiles, repos.Invoices, repos.Usage, repos.Updates, repos.QuickActions)
	paymentService := services.NewPaymentService(cfg, repos.Invoices, repos.Payments, repos.Updates, gateway)
	roomContractService := services.NewRoomContractService(repos.RoomContracts, repos.Profiles, repos.Updates, notifier)
	issueService := services.NewIssueService(repos.Issues, repos.Profiles, repos.Updates, notifier)
	feedbackService := services.NewFeedbackService(repos.Feedback)
	usageService := services.NewUsageService(repos.Usage)
	sweepService := services.NewInvoiceSweepService(repos.Invoices, repos.Profiles, repos.Updates, paymentService, notifier)

	// Controllers
	healthController := controllers.NewHealthController(application, string(cfg.DataSource))
	dashboardController := controllers.NewDashboardController(dashboardService, dispatcher)
	paymentController := controllers.NewPaymentController(paymentService)
	stripeWebhookController := controllers.NewStripeWebhookController(cfg, paymentService)
	roomContractController := controllers.NewRoomContractController(roomContractService)
	issueController := controllers.NewIssueController(issueService, feedbackService)
	usageController := controllers.NewUsageController(usageService)

	// Router setup
	router := mux.NewRouter()

	// Public Routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.TenantPaymentStripeWebhook, stripeWebhookController.WebhookHandler).Methods(http.MethodPost)

	// Secured routes for tenants
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))
	secured.HandleFunc(routes.TenantDashboard, dashboardController.GetDashboardHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantQuickAction, dashboardController.RunQuickActionHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenantPayments, paymentController.InitiatePaymentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenantPayments, paymentController.ListPaymentsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantPayment, paymentController.GetPaymentHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantPaymentCancel, paymentController.CancelPaymentHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.TenantRoomContract, roomContractController.GetRoomContractHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantRenewal, roomContractController.RequestRenewalHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenantIssues, issueController.CreateIssueHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenantIssues, issueController.ListIssuesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantIssue, issueController.GetIssueHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantFeedback, issueController.SubmitFeedbackHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenantFeedback, issueController.ListFeedbackHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantUsage, usageController.GetUsageHandler).Methods(http.MethodGet)

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC)) // Use UTC for cron scheduling

	if cfg.LDFlag_EnableInvoiceSweep {
		_, err = c.AddFunc(constants.InvoiceSweepCronSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.InvoiceSweepJobTimeout)
			defer cancel()
			if application.Upstream != nil {
				// Upstream runs the invoice lifecycle; only our own intents need expiring.
				utils.Logger.Info("Starting stale payment expiry cron job...")
				if _, err := paymentService.ExpireStalePayments(ctx, constants.StalePaymentIntentAge); err != nil {
					utils.Logger.WithError(err).Error("Failed to expire stale payments")
				}
				return
			}
			utils.Logger.Info("Starting invoice sweep cron job...")
			if _, err := sweepService.RunSweep(ctx); err != nil {
				utils.Logger.WithError(err).Error("Failed to run invoice sweep")
			}
		})
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule invoice sweep cron")
		}
		c.Start()
		defer c.Stop()
		utils.Logger.Info("Scheduled invoice sweep cron job")
	} else {
		utils.Logger.Warn("Invoice sweep disabled by flag")
	}

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", constants.IdempotencyKeyHeader, "ngrok-skip-browser-warning"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("tenant-service failed to start:", err)
	}
}
