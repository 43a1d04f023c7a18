package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tropay/tenant-service/internal/config"
	internal_models "github.com/tropay/tenant-service/internal/models"
	"github.com/tropay/tenant-service/internal/repositories/memrepo"
	"github.com/tropay/tenant-service/internal/routes"
	"github.com/tropay/tenant-service/internal/services"
	"github.com/tropay/tenant-service/shared/go-middleware"
	"github.com/tropay/tenant-service/shared/go-utils"
)

const (
	testTenantID      = "tenant-1"
	testWebhookSecret = "whsec_test_secret"
)

type stubGateway struct {
	mu      sync.Mutex
	n       int
	fail    error
	expired []string
}

func (g *stubGateway) CreateSession(_ context.Context, req services.GatewaySessionRequest) (*services.GatewaySession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return nil, g.fail
	}
	g.n++
	id := fmt.Sprintf("cs_test_%d", g.n)
	return &services.GatewaySession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *stubGateway) ExpireSession(_ context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expired = append(g.expired, sessionID)
	return g.fail
}

type silentNotifier struct{}

func (silentNotifier) NotifyLandlordOfIssue(context.Context, *internal_models.TenantContact, *internal_models.Issue) {
}

func (silentNotifier) NotifyLandlordOfRenewal(context.Context, *internal_models.TenantContact, *internal_models.RoomContract) {
}

func (silentNotifier) SendPaymentReminder(context.Context, *internal_models.TenantContact, *internal_models.Invoice) {
}

type harness struct {
	store   *memrepo.Store
	gateway *stubGateway
	router  *mux.Router
}

// withTenant stands in for AuthMiddleware by putting the tenant straight
// into the request context.
func withTenant(tenantID string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.ContextKeyUserID, tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func seedStore(s *memrepo.Store) {
	due := internal_models.DateOf(time.Now().AddDate(0, 0, 2))
	s.Profiles.Put(internal_models.TenantProfile{
		ID:   testTenantID,
		Name: "Sarah Johnson",
		RoomInfo: internal_models.RoomInfo{
			RoomNumber:     "A-205",
			RoomType:       internal_models.RoomTypeSingle,
			MonthlyRent:    decimal.RequireFromString("450"),
			DueDate:        due,
			ContractStatus: internal_models.ContractStatusActive,
		},
	}, internal_models.TenantContact{
		Name:          "Sarah Johnson",
		LandlordName:  "Michael Chen",
		LandlordPhone: utils.Ptr("+15555550199"),
	})
	s.Invoices.Put(&internal_models.Invoice{
		ID:          "INV-001",
		TenantID:    testTenantID,
		TotalAmount: decimal.RequireFromString("485.50"),
		DueDate:     due,
		Status:      internal_models.InvoiceStatusDueSoon,
		Items: []internal_models.InvoiceItem{
			{ID: "1", Description: "Monthly Rent", Amount: decimal.RequireFromString("450"), Type: internal_models.InvoiceItemRent},
			{ID: "2", Description: "Electricity", Amount: decimal.RequireFromString("35.50"), Type: internal_models.InvoiceItemElectricity},
		},
	})
	s.QuickActions.SetDefaults([]internal_models.QuickAction{
		{ID: "1", Title: "Report Issue", Kind: internal_models.QuickActionReportIssue},
		{ID: "4", Title: "Contact Landlord", Kind: internal_models.QuickActionContactLandlord},
	})
	s.RoomContracts.Put(internal_models.RoomContract{
		TenantID: testTenantID,
		Room:     internal_models.RoomDetails{RoomNumber: "A-205", RoomType: "Single", Status: internal_models.RoomStatusOccupied},
		Contract: internal_models.ContractDetails{
			ContractID: "CTR-2024-001",
			StartDate:  internal_models.DateOf(time.Now().AddDate(-1, 0, 0)),
			EndDate:    internal_models.DateOf(time.Now().AddDate(0, 0, 45)),
			Status:     internal_models.ContractStatusActive,
		},
	})
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		AppUrl:                    "https://app.example",
		Currency:                  "usd",
		StripeWebhookSecret:       testWebhookSecret,
		LDFlag_EnforceAmountMatch: true,
	}
	s := memrepo.NewStore()
	seedStore(s)
	gw := &stubGateway{}

	paymentService := services.NewPaymentService(cfg, s.Invoices, s.Payments, s.Updates, gw)
	dashboardService := services.NewDashboardService(s.Profiles, s.Invoices, s.Usage, s.Updates, s.QuickActions)
	dashboardController := NewDashboardController(dashboardService, services.NewNavigationDispatcher(s.Profiles))
	paymentController := NewPaymentController(paymentService)
	webhookController := NewStripeWebhookController(cfg, paymentService)
	roomContractController := NewRoomContractController(
		services.NewRoomContractService(s.RoomContracts, s.Profiles, s.Updates, silentNotifier{}),
	)
	issueController := NewIssueController(
		services.NewIssueService(s.Issues, s.Profiles, s.Updates, silentNotifier{}),
		services.NewFeedbackService(s.Feedback),
	)
	usageController := NewUsageController(services.NewUsageService(s.Usage))

	router := mux.NewRouter()
	router.HandleFunc(routes.TenantPaymentStripeWebhook, webhookController.WebhookHandler).Methods(http.MethodPost)
	secured := router.NewRoute().Subrouter()
	secured.Use(withTenant(testTenantID))
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

	return &harness{store: s, gateway: gw, router: router}
}

func (h *harness) do(t *testing.T, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}
