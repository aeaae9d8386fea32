package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastroflow/gastroflow-cli/internal/session"
)

const testToken = "gf_testtoken"

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testSession(token string) *session.Session {
	sess := session.New(session.NewMemoryStore(token), session.NewNotices(8), nil)
	_ = sess.Restore()
	return sess
}

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, testSession(testToken))
	return srv, client
}

func jsonResponse(data any) []byte {
	b, _ := json.Marshal(data)
	return b
}

func TestGetProduct(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "/v1/api/produtos", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("id"))
		w.Write(jsonResponse(map[string]any{
			"id":                7,
			"nome":              "Farinha",
			"unidadeMedida":     "g",
			"categoria":         "estocaveis",
			"quantidadeEstoque": 2500,
		}))
	})

	product, err := client.GetProduct(7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, "Farinha", product.Nome)
	assert.Equal(t, 2500.0, product.Quantidade)
}

func TestListProductsPageSendsFilters(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/produtos/filters/all", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "10", q.Get("pageSize"))
		assert.Equal(t, "1", q.Get("pageNumber"))
		assert.Equal(t, "far", q.Get("nome"))
		assert.Equal(t, AllCategories, q.Get("categoria"))
		w.Write(jsonResponse(map[string]any{
			"produtos":   []map[string]any{{"id": 11, "nome": "Farinha"}, {"id": 12, "nome": "Farofa"}},
			"total":      12,
			"totalPages": 2,
		}))
	})

	page, err := client.ListProductsPage(1, 10, ProductFilter{Nome: "far"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListProductsPageDropsEmptyName(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasName := r.URL.Query()["nome"]
		assert.False(t, hasName)
		assert.Equal(t, CategoryDairy, r.URL.Query().Get("categoria"))
		w.Write([]byte(`{"produtos":[],"total":0,"totalPages":0}`))
	})

	page, err := client.ListProductsPage(0, 10, ProductFilter{Categoria: CategoryDairy})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestListProductsBareArray(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/produtos/produtos", r.URL.Path)
		w.Write([]byte(`[{"id":1,"nome":"Leite"},{"id":2,"nome":"Queijo"}]`))
	})

	products, err := client.ListProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Queijo", products[1].Nome)
}

func TestCreateProductValidatesBeforeRequest(t *testing.T) {
	called := false
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.CreateProduct(ProductInput{Nome: "Sal", UnidadeMedida: "kg", Categoria: CategoryStockable})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unidadeMedida", verr.Field)
	assert.False(t, called)
}

func TestUpdateProductPatchesByQueryID(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "3", r.URL.Query().Get("id"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Manteiga", body["nome"])
		assert.Equal(t, 4.5, body["quantidadeEstoque"])
		w.Write(jsonResponse(body))
	})

	out, err := client.UpdateProduct(3, ProductInput{Nome: "Manteiga", UnidadeMedida: UnitGrams, Categoria: CategoryDairy, Quantidade: 4.5})
	require.NoError(t, err)
	assert.Equal(t, "Manteiga", out.Nome)
}

func TestUpdateStockEmptyBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"quantidadeEstoque": 10.0}, body)
		w.WriteHeader(http.StatusNoContent)
	})

	out, err := client.UpdateStock(3, StockInput{Quantidade: 10})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestUpdateProductRequiresID(t *testing.T) {
	client := NewClient("http://example.invalid", nil)
	_, err := client.UpdateProduct(0, ProductInput{})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)
}

func TestListSuppliersPageSpringEnvelope(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/suppliers", r.URL.Path)
		assert.Equal(t, "Horta", r.URL.Query().Get("nomeFantasia"))
		assert.Equal(t, "0", r.URL.Query().Get("pageNumber"))
		w.Write(jsonResponse(map[string]any{
			"content":       []map[string]any{{"id": 1, "nomeFantasia": "Horta Viva", "razaoSocial": "Horta Viva LTDA"}},
			"totalElements": 1,
			"totalPages":    1,
		}))
	})

	page, err := client.ListSuppliersPage(0, 10, SupplierFilter{NomeFantasia: "Horta"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Horta Viva", page.Items[0].DisplayName())
	assert.Equal(t, 1, page.Total)
}

func TestListSuppliersWalksPages(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pageNumber") {
		case "0":
			w.Write([]byte(`{"content":[{"id":1},{"id":2}],"totalPages":2,"totalElements":3}`))
		case "1":
			w.Write([]byte(`{"content":[{"id":3}],"totalPages":2,"totalElements":3}`))
		default:
			t.Errorf("unexpected page %s", r.URL.Query().Get("pageNumber"))
		}
	})

	suppliers, err := client.ListSuppliers()
	require.NoError(t, err)
	assert.Len(t, suppliers, 3)
}

func TestSupplierCRUDPaths(t *testing.T) {
	var seen []string
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"id":5,"razaoSocial":"Frios SA","email":"frios@example.com"}`))
	})

	input := SupplierInput{RazaoSocial: "Frios SA", Telefone: "1199", Endereco: "Rua A", Email: "frios@example.com"}
	_, err := client.CreateSupplier(input)
	require.NoError(t, err)
	s, err := client.GetSupplier(5)
	require.NoError(t, err)
	assert.Equal(t, "Frios SA", s.DisplayName())
	_, err = client.UpdateSupplier(5, input)
	require.NoError(t, err)
	require.NoError(t, client.DeleteSupplier(5))

	assert.Equal(t, []string{
		"POST /v1/api/suppliers",
		"GET /v1/api/suppliers/5",
		"PUT /v1/api/suppliers/5",
		"DELETE /v1/api/suppliers/5",
	}, seen)
}

func TestCreatePurchaseDefaultsNote(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/entradas", r.URL.Path)
		var body PurchaseInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultPurchaseNote, body.Observacao)
		assert.Equal(t, int64(4), body.FornecedorID)
		require.Len(t, body.Produtos, 1)
		assert.Equal(t, 12.5, body.Produtos[0].Preco)
		w.WriteHeader(http.StatusCreated)
	})

	_, err := client.CreatePurchase(PurchaseInput{
		DataEntrada:  "2024-05-02",
		FornecedorID: 4,
		Produtos:     []PurchaseItem{{ProdutoID: 1, Quantidade: 2, Preco: 12.5}},
	})
	require.NoError(t, err)
}

func TestRecipeAndClassEndpoints(t *testing.T) {
	var seen []string
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.Write([]byte(`[]`))
	})

	_, err := client.ListRecipes()
	require.NoError(t, err)
	_, err = client.ListClasses()
	require.NoError(t, err)
	_, err = client.ListPurchases()
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /v1/api/receitas", "GET /v1/api/aulas", "GET /v1/api/entradas"}, seen)
}

func TestUpdateClassUsesPut(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/api/aulas/9", r.URL.Path)
		w.Write([]byte(`{"id":9,"nome":"Massas"}`))
	})

	out, err := client.UpdateClass(9, ClassInput{
		Nome: "Massas", Descricao: "Massas frescas", Data: "2024-03-10",
		Instrutor: "Ana", Materia: "Cozinha italiana", Semestre: 1, Modulo: 2,
		Periodo:  PeriodEvening,
		Receitas: []ClassRecipe{{ReceitaID: 1, Quantidade: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Massas", out.Nome)
}

func TestLoginIsPublic(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathLogin, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"token":"fresh"}`))
	})

	resp, err := client.Login(LoginInput{Email: " ana@gastroflow.dev ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", resp.Token)
}

func TestLoginWrongCredentialsDoesNotExpireSession(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Login(LoginInput{Email: "ana@gastroflow.dev", Password: "nope"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, testToken, client.Session().Token())
	assert.Empty(t, client.Session().Notices().C())
}

func TestLoginWithoutTokenInResponse(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.Login(LoginInput{Email: "ana@gastroflow.dev", Password: "secret1"})
	assert.ErrorContains(t, err, "no token")
}

func TestRegisterConflict(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathRegister, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "Confirm")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"email already registered"}`))
	})

	_, err := client.Register(RegisterInput{Name: "Ana", Email: "ana@gastroflow.dev", Password: "secret1", Confirm: "secret1"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.EqualError(t, err, "email already registered")
}

func TestCurrentUser(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/users/me", r.URL.Path)
		w.Write([]byte(`{"id":3,"name":"Ana","email":"ana@gastroflow.dev","role":"ADMIN"}`))
	})

	user, err := client.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ADMIN", user.Role)
}

func TestSignInStoresTokenAndProfile(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathLogin:
			w.Write([]byte(`{"token":"fresh"}`))
		case "/v1/api/users/me":
			assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id":3,"name":"Ana","email":"ana@gastroflow.dev","role":"ADMIN"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	user, err := client.SignIn(LoginInput{Email: "ana@gastroflow.dev", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "3", user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "fresh", client.Session().Token())
}

func TestSignInKeepsLoginWhenProfileFails(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == PathLogin {
			w.Write([]byte(`{"token":"fresh"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SignIn(LoginInput{Email: "ana@gastroflow.dev", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, client.Session().LoggedIn())
}

func TestClientTransportFailureSurfacesDeterministicError(t *testing.T) {
	client := NewClient("http://example.com", testSession(testToken))
	client.transport.base = roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("boom")
	})

	_, err := client.ListRecipes()
	require.Error(t, err)
	assert.ErrorContains(t, err, "request failed:")
	assert.ErrorContains(t, err, "boom")
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "/x", buildQuery("/x", nil))
	assert.Equal(t, "/x", buildQuery("/x", QueryParams{"a": ""}))
	assert.Equal(t, "/x?a=1&b=two+words", buildQuery("/x", QueryParams{"a": "1", "b": "two words"}))
	assert.Equal(t, "/x?id=1&a=2", buildQuery("/x?id=1", QueryParams{"a": "2"}))
}
