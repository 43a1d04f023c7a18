package tenantapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	internal_models "github.com/tropay/tenant-service/internal/models"
	internal_utils "github.com/tropay/tenant-service/internal/utils"
)

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(envelope{Success: status < 300, Data: raw})
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/api/v1", "secret", 2, time.Millisecond)
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not a url", "", 0, 0)
	assert.Error(t, err)
	_, err = NewClient("/relative", "", 0, 0)
	assert.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tenants/t%201/profile", r.URL.EscapedPath())
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, map[string]any{
			"id":   "t 1",
			"name": "Sarah Johnson",
			"room_info": map[string]any{
				"room_number":     "A-205",
				"room_type":       "Single",
				"monthly_rent":    "450",
				"due_date":        "2025-03-12",
				"contract_status": "Active",
			},
		})
	})

	p, err := c.GetProfile(context.Background(), "t 1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Sarah Johnson", p.Name)
	assert.Equal(t, internal_models.ContractStatusActive, p.RoomInfo.ContractStatus)
	assert.Equal(t, "2025-03-12", p.RoomInfo.DueDate.String())
}

func TestGet_NotFoundIsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"success":false,"message":"no such tenant"}`, http.StatusNotFound)
	})

	p, err := c.GetProfile(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)

	inv, err := c.GetCurrentForTenant(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, inv)

	usage, err := c.GetServiceUsage(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, internal_models.ServiceUsage{}, *usage)
}

func TestGet_ServerErrorIsNetworkError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.GetProfile(context.Background(), "t1")
	var netErr *internal_utils.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_RetriesOnUnavailable(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeEnvelope(w, http.StatusOK, []any{})
	})

	list, err := c.ListReadings(context.Background(), "t1", "2025-03")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.GetProfile(context.Background(), "t1")
	var netErr *internal_utils.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusTooManyRequests, netErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestUnsuccessfulEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: "tenant suspended"})
	})

	_, err := c.GetProfile(context.Background(), "t1")
	var netErr *internal_utils.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, err.Error(), "tenant suspended")
}

func TestListRecentUpdates_PassesLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tenants/t1/updates", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		writeEnvelope(w, http.StatusOK, []map[string]any{
			{"id": "u1", "type": "payment", "title": "Payment Reminder", "description": "d", "timestamp": "2025-03-10T12:00:00Z", "status": "pending"},
		})
	})

	list, err := c.ListForTenant(context.Background(), "t1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].TenantID)
	assert.Equal(t, internal_models.UpdateTypePayment, list[0].Type)
	require.NotNil(t, list[0].Status)
	assert.Equal(t, internal_models.UpdateStatusPending, *list[0].Status)
}

func TestCreateRecentUpdate(t *testing.T) {
	var got updatePayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tenants/t1/updates", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeEnvelope(w, http.StatusCreated, nil)
	})

	err := c.Create(context.Background(), &internal_models.RecentUpdate{
		ID: "u1", TenantID: "t1", Type: internal_models.UpdateTypeIssue, Title: "Issue submitted",
	})
	require.NoError(t, err)
	assert.Equal(t, "Issue submitted", got.Title)
}

func TestUpdateInvoiceStatus(t *testing.T) {
	var version atomic.Int64
	version.Store(4)
	status := internal_models.InvoiceStatusDueSoon

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/invoices/INV-001", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeEnvelope(w, http.StatusOK, invoicePayload{
				ID: "INV-001", TenantID: "t1", Status: status, RowVersion: version.Load(),
			})
		case http.MethodPatch:
			var patch invoiceStatusPatch
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
			if patch.RowVersion != version.Load() {
				w.WriteHeader(http.StatusConflict)
				return
			}
			status = patch.Status
			version.Add(1)
			writeEnvelope(w, http.StatusOK, nil)
		}
	})

	tag, err := c.UpdateIfVersion(context.Background(), &internal_models.Invoice{ID: "INV-001", Status: internal_models.InvoiceStatusPaid}, 3)
	require.NoError(t, err)
	assert.Zero(t, tag.RowsAffected())

	err = c.UpdateWithRetry(context.Background(), "INV-001", func(inv *internal_models.Invoice) error {
		inv.Status = internal_models.InvoiceStatusPaid
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, internal_models.InvoiceStatusPaid, status)
	assert.Equal(t, int64(5), version.Load())
}

func TestListOpenUnsupported(t *testing.T) {
	c, err := NewClient("http://upstream.example", "", 0, 0)
	require.NoError(t, err)
	_, err = c.ListOpen(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestQuickActions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tenants/t1/quick-actions", r.URL.Path)
		writeEnvelope(w, http.StatusOK, []map[string]any{
			{"id": "1", "title": "Report Issue", "icon": "exclamationmark.triangle", "color": "#EF4444", "kind": "report_issue"},
		})
	})

	list, err := c.QuickActions().ListForTenant(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, internal_models.QuickActionReportIssue, list[0].Kind)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		writeEnvelope(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	assert.NoError(t, c.Ping(context.Background()))
}
