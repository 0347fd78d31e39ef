package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
		expectKeys  []string
	}{
		{
			name:       "Object with fields",
			body:       `{"name":"Asha","items":[{"id":"1"}]}`,
			expectKeys: []string{"name", "items"},
		},
		{
			name:       "Empty body",
			body:       "",
			expectKeys: []string{},
		},
		{
			name:       "Whitespace body",
			body:       "  \n",
			expectKeys: []string{},
		},
		{
			name:        "Array body",
			body:        `[1,2,3]`,
			expectError: true,
		},
		{
			name:        "Null body",
			body:        `null`,
			expectError: true,
		},
		{
			name:        "Malformed JSON",
			body:        `{"name":`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.body))

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, doc)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.Len(t, doc, len(tt.expectKeys))
			for _, key := range tt.expectKeys {
				assert.Contains(t, doc, key)
			}
		})
	}
}

func TestDocument_Truthy(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
		"str": "hello",
		"empty": "",
		"zero": 0,
		"num": 3,
		"no": false,
		"yes": true,
		"nothing": null,
		"obj": {},
		"arr": []
	}`))
	require.NoError(t, err)

	assert.True(t, doc.Truthy("str"))
	assert.False(t, doc.Truthy("empty"))
	assert.False(t, doc.Truthy("zero"))
	assert.True(t, doc.Truthy("num"))
	assert.False(t, doc.Truthy("no"))
	assert.True(t, doc.Truthy("yes"))
	assert.False(t, doc.Truthy("nothing"))
	assert.True(t, doc.Truthy("obj"))
	assert.True(t, doc.Truthy("arr"))
	assert.False(t, doc.Truthy("missing"))
}

func TestDocument_SetOverwritesClientValue(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"status":"delivered","extra":{"nested":1}}`))
	require.NoError(t, err)

	require.NoError(t, doc.Set("status", OrderStatusReceived))

	status, ok := doc.String("status")
	require.True(t, ok)
	assert.Equal(t, OrderStatusReceived, status)
	assert.JSONEq(t, `{"nested":1}`, string(doc["extra"]))

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"received","extra":{"nested":1}}`, string(out))
}

func TestIdentifiersAndTimestamps(t *testing.T) {
	ts := time.Date(2024, 1, 3, 10, 15, 30, 123_000_000, time.FixedZone("IST", 5*3600+1800))

	assert.Equal(t, "DO1704257130123", NewOrderID(ts))
	assert.Equal(t, "CT1704257130123", NewContactID(ts))
	assert.Equal(t, "2024-01-03T04:45:30.123Z", FormatTimestamp(ts))
}

func TestDocument_TextAndNumber(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
		"str": "hello",
		"phone": 9876543210,
		"flag": true,
		"nothing": null,
		"obj": {"a": 1},
		"total": "240",
		"padded": " 12.5 ",
		"price": 99.5,
		"bad": "abc"
	}`))
	require.NoError(t, err)

	tests := []struct {
		key        string
		wantText   string
		wantNumber float64
	}{
		{key: "str", wantText: "hello"},
		{key: "phone", wantText: "9876543210", wantNumber: 9876543210},
		{key: "flag", wantText: "true"},
		{key: "nothing", wantText: ""},
		{key: "obj", wantText: `{"a": 1}`},
		{key: "total", wantText: "240", wantNumber: 240},
		{key: "padded", wantText: " 12.5 ", wantNumber: 12.5},
		{key: "price", wantText: "99.5", wantNumber: 99.5},
		{key: "bad", wantText: "abc"},
		{key: "missing", wantText: ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.wantText, doc.Text(tt.key))
			assert.Equal(t, tt.wantNumber, doc.Number(tt.key))
		})
	}
}

func TestContactFromDocument(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Contact
	}{
		{
			name: "Well formed",
			body: `{"id":"CT1","name":"Ravi","email":"r@x","phone":"98765","message":"hi","date":"2024-01-01T00:00:00.000Z","status":"unread"}`,
			want: Contact{ID: "CT1", Name: "Ravi", Email: "r@x", Phone: "98765", Message: "hi", Date: "2024-01-01T00:00:00.000Z", Status: "unread"},
		},
		{
			name: "Numeric phone",
			body: `{"name":"B","email":"b@x","message":"hi","phone":9876543210}`,
			want: Contact{Name: "B", Email: "b@x", Phone: "9876543210", Message: "hi"},
		},
		{
			name: "Null and non-string fields",
			body: `{"name":"B","email":"b@x","message":["a"],"phone":null,"date":1704067200000}`,
			want: Contact{Name: "B", Email: "b@x", Message: `["a"]`, Date: "1704067200000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ContactFromDocument(doc))
		})
	}
}

func TestOrderFromDocument(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Order
	}{
		{
			name: "String total and no items",
			body: `{"orderId":"DO1","total":"240","items":[]}`,
			want: Order{OrderID: "DO1", Total: 240, Items: []CartItem{}},
		},
		{
			name: "Loose item fields",
			body: `{"customerDetails":{"name":"Asha","phone":9876543210},"items":[{"id":1,"price":120,"quantity":"2","isVeg":"yes"},"junk"],"total":240}`,
			want: Order{
				CustomerDetails: CustomerDetails{Name: "Asha", Phone: "9876543210"},
				Items:           []CartItem{{ID: "1", Price: "120", Quantity: 2, IsVeg: true}},
				Total:           240,
			},
		},
		{
			name: "Missing everything",
			body: `{"customerDetails":"nope","items":"nope","total":"abc"}`,
			want: Order{Items: []CartItem{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, OrderFromDocument(doc))
		})
	}
}
