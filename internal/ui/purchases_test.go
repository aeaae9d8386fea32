package ui

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastroflow/gastroflow-cli/internal/api"
)

type purchaseBackend struct {
	mu        sync.Mutex
	purchases []api.Purchase
	created   []api.PurchaseInput
	fail      bool
}

func (b *purchaseBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/api/entradas":
		if b.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, b.purchases)
	case r.Method == http.MethodGet && r.URL.Path == "/v1/api/produtos/produtos":
		writeJSON(w, testProducts(3))
	case r.Method == http.MethodGet && r.URL.Path == "/v1/api/suppliers":
		writeJSON(w, map[string]any{"content": testSuppliers(), "totalPages": 1})
	case r.Method == http.MethodPost && r.URL.Path == "/v1/api/entradas":
		var in api.PurchaseInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.created = append(b.created, in)
		writeJSON(w, api.Purchase{ID: 50, DataEntrada: in.DataEntrada})
	default:
		http.NotFound(w, r)
	}
}

func testPurchases() []api.Purchase {
	return []api.Purchase{
		{ID: 1, DataEntrada: "2026-03-01T10:00:00", FornecedorID: 1, Produtos: []api.PurchaseItem{{ProdutoID: 1, Quantidade: 10, Preco: 4.5}}},
		{ID: 2, DataEntrada: "2026-03-05", FornecedorID: 2, Produtos: []api.PurchaseItem{{ProdutoID: 2, Quantidade: 1, Preco: 8}, {ProdutoID: 42, Quantidade: 2, Preco: 1}}},
		{ID: 3, DataEntrada: "2026-03-03", FornecedorID: 9},
	}
}

func newTestPurchases(t *testing.T, backend *purchaseBackend) PurchasesModel {
	t.Helper()
	_, client := testClient(t, backend.handle)
	m := NewPurchasesModel(client, 10)
	m.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local) }
	m.resetAdd()
	m.setSize(110, 40)
	return settle(m, purchasesUpdate, collect(m.Init())...)
}

func TestLoadPurchaseRowsResolvesAndSorts(t *testing.T) {
	_, client := testClient(t, (&purchaseBackend{purchases: testPurchases()}).handle)

	rows, err := loadPurchaseRows(client)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(2), rows[0].Purchase.ID)
	assert.Equal(t, int64(3), rows[1].Purchase.ID)
	assert.Equal(t, int64(1), rows[2].Purchase.ID)

	assert.Equal(t, "Laticinios Serra SA", rows[0].Supplier)
	assert.Equal(t, "#9", rows[1].Supplier)
	assert.Equal(t, "Moinho Sul", rows[2].Supplier)

	require.Len(t, rows[0].Lines, 2)
	assert.Equal(t, "Farinha de rosca", rows[0].Lines[0].Name)
	assert.Equal(t, api.UnitGrams, rows[0].Lines[0].Unit)
	assert.Equal(t, "#42", rows[0].Lines[1].Name)
}

func TestLoadPurchaseRowsFailsWhenAnySourceFails(t *testing.T) {
	_, client := testClient(t, (&purchaseBackend{fail: true}).handle)

	_, err := loadPurchaseRows(client)
	require.Error(t, err)
}

func TestPurchasesDateRangeFilter(t *testing.T) {
	m := newTestPurchases(t, &purchaseBackend{purchases: testPurchases()})
	require.Len(t, m.list.Controller().Visible(), 3)

	keys := append(typeKeys("f"), typeKeys("2026-03-02")...)
	m = pressKeys(m, purchasesUpdate, append(keys, keyEnter)...)

	visible := m.list.Controller().Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, int64(2), visible[0].Purchase.ID)
	assert.Equal(t, int64(3), visible[1].Purchase.ID)
}

func TestPurchasesDetailShowsItemsAndTotal(t *testing.T) {
	m := newTestPurchases(t, &purchaseBackend{purchases: testPurchases()})

	m = pressKeys(m, purchasesUpdate, keyEnter)
	require.Equal(t, purchasesViewDetail, m.view)
	view := m.View()
	assert.Contains(t, view, "Farinha de rosca")
	assert.Contains(t, view, "R$ 10")
	assert.Contains(t, view, "5 days ago")
}

func TestPurchasesAddNeedsSupplier(t *testing.T) {
	backend := &purchaseBackend{}
	m := newTestPurchases(t, backend)

	m = pressKeys(m, purchasesUpdate, runeKey('n'), keyCtrlS)
	assert.Contains(t, m.View(), "Select a supplier.")
	assert.Empty(t, backend.created)
}

func TestPurchasesAddRegistersPurchase(t *testing.T) {
	backend := &purchaseBackend{}
	m := newTestPurchases(t, backend)

	m = pressKeys(m, purchasesUpdate, runeKey('n'))
	assert.Equal(t, "2026-03-10", m.add.Value(purchaseFieldDate))

	m = pressKeys(m, purchasesUpdate, keyDown, keyDown, keyEnter)
	require.True(t, m.suppliers.IsOpen())
	m = pressKeys(m, purchasesUpdate, keyEnter)
	assert.Equal(t, "Moinho Sul", m.add.Value(purchaseFieldSupplier))

	m = pressKeys(m, purchasesUpdate, keyDown, keyEnter)
	require.True(t, m.products.IsOpen())
	keys := append(append(typeKeys("2"), keyEnter), typeKeys("3,5")...)
	m = pressKeys(m, purchasesUpdate, keyEnter)
	m = pressKeys(m, purchasesUpdate, append(keys, keyEnter)...)
	require.Len(t, m.addItems, 1)
	assert.Contains(t, m.add.Value(purchaseFieldProducts), "R$ 7")

	m = pressKeys(m, purchasesUpdate, keyCtrlS)
	require.Len(t, backend.created, 1)
	got := backend.created[0]
	assert.Equal(t, "2026-03-10", got.DataEntrada)
	assert.Equal(t, api.DefaultPurchaseNote, got.Observacao)
	assert.Equal(t, int64(1), got.FornecedorID)
	assert.Equal(t, []api.PurchaseItem{{ProdutoID: 1, Quantidade: 2, Preco: 3.5}}, got.Produtos)
	assert.Nil(t, m.addItems)
	assert.Empty(t, m.addSupplier.DisplayName())
}
