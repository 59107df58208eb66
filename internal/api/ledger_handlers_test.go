package api

import (
	"net/http"
	"testing"

	"github.com/Veraticus/creditbook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer(t *testing.T) {
	tests := []struct {
		body           any
		name           string
		expectedStatus int
	}{
		{
			name:           "success",
			body:           map[string]string{"name": "John", "mobile": "123456789"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - ten digits",
			body:           map[string]string{"name": "John", "mobile": "1234567890"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - letters",
			body:           map[string]string{"name": "John", "mobile": "12345678a"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing name",
			body:           map[string]string{"mobile": "123456789"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Config{})
			token := env.login(t)

			w := env.do(http.MethodPost, "/v1/customers", token, tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusCreated {
				c := decode[model.Customer](t, w)
				assert.Zero(t, c.Credit)
				assert.Len(t, env.store.Customers(), 1)
			} else {
				assert.Empty(t, env.store.Customers())
			}
		})
	}
}

func TestCustomerAmendments(t *testing.T) {
	env := newTestEnv(t, Config{})
	token := env.login(t)
	c, err := env.store.AddCustomer("John", "123456789")
	require.NoError(t, err)

	tests := []struct {
		body           any
		name           string
		path           string
		expectedStatus int
		wantCredit     float64
	}{
		{
			name:           "debt",
			path:           "/v1/customers/" + c.ID + "/debt",
			body:           `{"amount": 80}`,
			expectedStatus: http.StatusOK,
			wantCredit:     80,
		},
		{
			name:           "payment",
			path:           "/v1/customers/" + c.ID + "/payments",
			body:           `{"amount": "130"}`,
			expectedStatus: http.StatusOK,
			wantCredit:     -50,
		},
		{
			name:           "negative payment is rejected",
			path:           "/v1/customers/" + c.ID + "/payments",
			body:           `{"amount": -5}`,
			expectedStatus: http.StatusUnprocessableEntity,
			wantCredit:     -50,
		},
		{
			name:           "non-numeric amount is malformed",
			path:           "/v1/customers/" + c.ID + "/payments",
			body:           `{"amount": "abc"}`,
			expectedStatus: http.StatusBadRequest,
			wantCredit:     -50,
		},
		{
			name:           "missing amount",
			path:           "/v1/customers/" + c.ID + "/payments",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			wantCredit:     -50,
		},
		{
			name:           "unknown customer",
			path:           "/v1/customers/missing/debt",
			body:           `{"amount": 10}`,
			expectedStatus: http.StatusNotFound,
			wantCredit:     -50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, tt.path, token, tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			got, _ := env.store.Customer(c.ID)
			assert.Equal(t, tt.wantCredit, got.Credit)
		})
	}

	w := env.do(http.MethodGet, "/v1/totals", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -50.0, decode[model.Totals](t, w).Credit)
}

func TestSuppliers(t *testing.T) {
	env := newTestEnv(t, Config{})
	token := env.login(t)

	w := env.do(http.MethodPost, "/v1/suppliers", token, `{"name": "Wholesale", "mobile": "987654321", "credit": 1000}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sup := decode[model.Supplier](t, w)
	assert.Equal(t, 1000.0, sup.Credit)

	w = env.do(http.MethodPost, "/v1/suppliers/"+sup.ID+"/payments", token, `{"amount": 400}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 600.0, decode[model.Supplier](t, w).Credit)

	w = env.do(http.MethodGet, "/v1/suppliers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Supplier](t, w), 1)
}

func TestInvestments(t *testing.T) {
	env := newTestEnv(t, Config{})
	token := env.login(t)

	w := env.do(http.MethodPost, "/v1/investments", token, `{"name": "Kamal", "type": "given", "amount": 500}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[model.Investment](t, w)

	w = env.do(http.MethodPost, "/v1/investments", token, `{"name": "Kamal", "type": "given", "amount": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "zero amount is a validation failure at creation")

	w = env.do(http.MethodPost, "/v1/investments", token, `{"name": "Kamal", "type": "loaned", "amount": 10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/v1/investments/"+inv.ID+"/payments", token, `{"amount": 200}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 300.0, decode[model.Investment](t, w).Amount)

	w = env.do(http.MethodGet, "/v1/investments?type=taken", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]model.Investment](t, w))

	w = env.do(http.MethodGet, "/v1/investments?type=given", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Investment](t, w), 1)

	w = env.do(http.MethodGet, "/v1/investments?type=other", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChecks(t *testing.T) {
	env := newTestEnv(t, Config{})
	token := env.login(t)

	body := map[string]any{
		"number": "000123", "bank": "BOC", "name": "Nimal", "contact": "771234567",
		"date": "2024-04-01", "type": "coming", "amount": 1500,
	}
	w := env.do(http.MethodPost, "/v1/checks", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	check := decode[model.Check](t, w)
	assert.Equal(t, model.CheckPending, check.Status)

	w = env.do(http.MethodPost, "/v1/checks", token, map[string]any{"number": "1", "type": "coming", "amount": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/v1/checks/"+check.ID+"/pass", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.CheckCleared, decode[model.Check](t, w).Status)

	w = env.do(http.MethodPost, "/v1/checks/"+check.ID+"/bounce", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "settled checks stay settled")

	w = env.do(http.MethodPost, "/v1/checks/missing/pass", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/v1/checks?type=coming", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Check](t, w), 1)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t, Config{})
	token := env.login(t)

	w := env.do(http.MethodPut, "/v1/profile", token, model.AdminProfile{ShopName: "Corner Store", Address: "Main St"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.AdminProfile{ShopName: "Corner Store", Address: "Main St"}, decode[model.AdminProfile](t, w))
}
