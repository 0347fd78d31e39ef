package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"dosadelight/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    model.CartItem
		expectError bool
	}{
		{
			name:     "Without quantity",
			input:    "d1:Masala Dosa:₹120",
			expected: model.CartItem{ID: "d1", Name: "Masala Dosa", Price: "₹120", Quantity: 1},
		},
		{
			name:     "With quantity",
			input:    "v1:Vada:₹80:3",
			expected: model.CartItem{ID: "v1", Name: "Vada", Price: "₹80", Quantity: 3},
		},
		{name: "Too few parts", input: "d1:Masala Dosa", expectError: true},
		{name: "Bad quantity", input: "d1:Masala Dosa:₹120:two", expectError: true},
		{name: "Missing id", input: ":Masala Dosa:₹120", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := parseItem(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, item)
		})
	}
}

func TestRun_Order(t *testing.T) {
	var received model.Order
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"orderId":"DO1704067200000"}`))
	}))
	defer srv.Close()

	t.Setenv("DOSA_API_URL", srv.URL)
	t.Setenv("DOSA_PENDING_FILE", filepath.Join(t.TempDir(), "pending_orders.json"))

	var out bytes.Buffer
	err := run([]string{
		"order",
		"-item", "d1:Masala Dosa:₹120:2",
		"-item", "v1:Vada:₹80",
		"-name", "Asha",
		"-email", "asha@example.com",
		"-phone", "9876543210",
		"-address", "12 MG Road",
	}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Order placed: DO1704067200000 (total ₹320.00)")
	assert.Equal(t, 320.0, received.Total)
	require.Len(t, received.Items, 2)
	assert.Equal(t, 2, received.Items[0].Quantity)
}

func TestRun_OrderRepeatedItems(t *testing.T) {
	tests := []struct {
		name          string
		items         []string
		expectQty     map[string]int
		expectTotal   float64
		expectSummary string
	}{
		{
			name:          "Same item twice",
			items:         []string{"d1:Masala Dosa:₹120", "d1:Masala Dosa:₹120"},
			expectQty:     map[string]int{"d1": 2},
			expectTotal:   240,
			expectSummary: "total ₹240.00",
		},
		{
			name:          "Explicit quantities add up",
			items:         []string{"d1:Masala Dosa:₹120:2", "v1:Vada:₹80", "d1:Masala Dosa:₹120:3"},
			expectQty:     map[string]int{"d1": 5, "v1": 1},
			expectTotal:   680,
			expectSummary: "total ₹680.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received model.Order
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				assert.NoError(t, json.Unmarshal(body, &received))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"success":true,"orderId":"DO1704067200000"}`))
			}))
			defer srv.Close()

			t.Setenv("DOSA_API_URL", srv.URL)
			t.Setenv("DOSA_PENDING_FILE", filepath.Join(t.TempDir(), "pending_orders.json"))

			args := []string{"order", "-name", "Asha", "-email", "asha@example.com", "-phone", "9876543210", "-address", "12 MG Road"}
			for _, item := range tt.items {
				args = append(args, "-item", item)
			}

			var out bytes.Buffer
			require.NoError(t, run(args, &out))

			assert.Contains(t, out.String(), tt.expectSummary)
			assert.Equal(t, tt.expectTotal, received.Total)

			got := make(map[string]int)
			for _, item := range received.Items {
				got[item.ID] = item.Quantity
			}
			assert.Equal(t, tt.expectQty, got)
		})
	}
}

func TestRun_OrderSavedLocallyWhenAPIDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	pendingFile := filepath.Join(t.TempDir(), "pending_orders.json")
	t.Setenv("DOSA_API_URL", url)
	t.Setenv("DOSA_PENDING_FILE", pendingFile)

	var out bytes.Buffer
	err := run([]string{
		"order",
		"-item", "d1:Masala Dosa:₹120",
		"-name", "Asha",
		"-email", "asha@example.com",
		"-phone", "9876543210",
		"-address", "12 MG Road",
	}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "saved locally")

	data, err := os.ReadFile(pendingFile)
	require.NoError(t, err)
	var queued []model.Order
	require.NoError(t, json.Unmarshal(data, &queued))
	assert.Len(t, queued, 1)
}

func TestRun_Contacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contacts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"CT1","name":"Ravi","email":"ravi@example.com","message":"Hi","date":"2024-01-02T09:00:00.000Z","status":"unread"},
			{"id":"CT2","name":"Anu","email":"anu@example.com","message":"Hello","date":"2024-01-03T09:00:00.000Z","status":"unread"}
		]`))
	}))
	defer srv.Close()

	t.Setenv("DOSA_API_URL", srv.URL)
	xlsxPath := filepath.Join(t.TempDir(), "contacts.xlsx")

	var out bytes.Buffer
	err := run([]string{"contacts", "-sort", "name", "-order", "asc", "-xlsx", xlsxPath}, &out)

	require.NoError(t, err)
	output := out.String()
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Anu")), bytes.Index(out.Bytes(), []byte("Ravi")))
	assert.Contains(t, output, "Exported to "+xlsxPath)

	info, err := os.Stat(xlsxPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"menu"}, &out)

	require.Error(t, err)
	assert.Contains(t, out.String(), "usage: dosactl")
}
