package ui

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastroflow/gastroflow-cli/internal/api"
)

type supplierBackend struct {
	mu        sync.Mutex
	suppliers []api.Supplier
	queries   []string
	created   []api.SupplierInput
	deleted   []string
	failDel   bool
}

func (b *supplierBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/api/suppliers":
		b.queries = append(b.queries, r.URL.RawQuery)
		writeJSON(w, map[string]any{"content": b.suppliers, "totalElements": len(b.suppliers), "totalPages": 1})
	case r.Method == http.MethodPost && r.URL.Path == "/v1/api/suppliers":
		var in api.SupplierInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.created = append(b.created, in)
		writeJSON(w, api.Supplier{ID: 7, RazaoSocial: in.RazaoSocial})
	case r.Method == http.MethodDelete:
		if b.failDel {
			w.WriteHeader(http.StatusConflict)
			writeJSON(w, map[string]string{"message": "supplier has purchases"})
			return
		}
		b.deleted = append(b.deleted, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func testSuppliers() []api.Supplier {
	return []api.Supplier{
		{ID: 1, RazaoSocial: "Moinho Sul LTDA", NomeFantasia: "Moinho Sul", Telefone: "11 99999-0000", Email: "contato@moinho.com", Endereco: "Rua A, 1"},
		{ID: 2, RazaoSocial: "Laticinios Serra SA", Telefone: "11 98888-0000", Email: "vendas@serra.com", Endereco: "Rua B, 2"},
	}
}

func newTestSuppliers(t *testing.T, backend *supplierBackend) SuppliersModel {
	t.Helper()
	_, client := testClient(t, backend.handle)
	m := NewSuppliersModel(client, 10)
	m.setSize(100, 40)
	return settle(m, suppliersUpdate, collect(m.Init())...)
}

func TestSuppliersListShowsTradeNameFallback(t *testing.T) {
	m := newTestSuppliers(t, &supplierBackend{suppliers: testSuppliers()})

	view := m.View()
	assert.Contains(t, view, "Moinho Sul")
	assert.Contains(t, view, "Laticinios Serra SA")
}

func TestSuppliersFilterSendsQuery(t *testing.T) {
	backend := &supplierBackend{suppliers: testSuppliers()}
	m := newTestSuppliers(t, backend)

	keys := append(typeKeys("f"), typeKeys("moinho")...)
	pressKeys(m, suppliersUpdate, append(keys, keyEnter)...)

	require.Len(t, backend.queries, 2)
	assert.Contains(t, backend.queries[1], "nomeFantasia=moinho")
	assert.Contains(t, backend.queries[1], "pageNumber=0")
}

func TestSuppliersAddValidates(t *testing.T) {
	backend := &supplierBackend{}
	m := newTestSuppliers(t, backend)

	m = pressKeys(m, suppliersUpdate, runeKey('n'), keyCtrlS)
	assert.Contains(t, m.View(), "Legal name is required.")

	keys := typeKeys("Moinho Sul LTDA")
	keys = append(keys, keyDown, keyDown)
	keys = append(keys, typeKeys("1199")...)
	keys = append(keys, keyDown)
	keys = append(keys, typeKeys("not-an-email")...)
	keys = append(keys, keyDown)
	keys = append(keys, typeKeys("Rua A")...)
	m = pressKeys(m, suppliersUpdate, append(keys, keyCtrlS)...)
	assert.Contains(t, m.View(), "Email is not valid.")
	assert.Empty(t, backend.created)
}

func TestSuppliersAddCreates(t *testing.T) {
	backend := &supplierBackend{}
	m := newTestSuppliers(t, backend)

	keys := append(typeKeys("n"), typeKeys("Moinho Sul LTDA")...)
	keys = append(keys, keyDown, keyDown)
	keys = append(keys, typeKeys("1199")...)
	keys = append(keys, keyDown)
	keys = append(keys, typeKeys("a@b.com")...)
	keys = append(keys, keyDown)
	keys = append(keys, typeKeys("Rua A")...)
	m = pressKeys(m, suppliersUpdate, append(keys, keyCtrlS)...)

	require.Len(t, backend.created, 1)
	assert.Equal(t, "a@b.com", backend.created[0].Email)
	assert.Empty(t, backend.created[0].NomeFantasia)
	assert.False(t, m.add.HasInput())
	assert.Len(t, backend.queries, 2)
}

func TestSuppliersDeleteReturnsToList(t *testing.T) {
	backend := &supplierBackend{suppliers: testSuppliers()}
	m := newTestSuppliers(t, backend)

	m = pressKeys(m, suppliersUpdate, keyEnter, runeKey('d'))
	require.True(t, m.confirmDelete)
	assert.Contains(t, m.View(), "Delete Supplier")

	m = pressKeys(m, suppliersUpdate, runeKey('y'))
	assert.Equal(t, []string{"/v1/api/suppliers/1"}, backend.deleted)
	assert.Equal(t, suppliersViewList, m.view)
	_, selected := m.list.Controller().Selected()
	assert.False(t, selected)
}

func TestSuppliersDeleteFailureStaysOnDetail(t *testing.T) {
	backend := &supplierBackend{suppliers: testSuppliers(), failDel: true}
	m := newTestSuppliers(t, backend)

	m = pressKeys(m, suppliersUpdate, keyEnter, runeKey('d'), runeKey('y'))
	assert.Equal(t, suppliersViewDetail, m.view)
	assert.False(t, m.confirmDelete)
	assert.Contains(t, m.detailErr, "Failed to delete the supplier.")
}

func TestSuppliersDeleteCancel(t *testing.T) {
	backend := &supplierBackend{suppliers: testSuppliers()}
	m := newTestSuppliers(t, backend)

	m = pressKeys(m, suppliersUpdate, keyEnter, runeKey('d'), runeKey('n'))
	assert.False(t, m.confirmDelete)
	assert.Empty(t, backend.deleted)
}
