package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConcurrentMutations(t *testing.T) {
	var count atomic.Int32
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/v1/api/produtos" {
			var body ProductInput
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "stress-product", body.Nome)
			count.Add(1)
			w.Write(jsonResponse(map[string]any{"id": 1, "nome": body.Nome}))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	const workers = 50
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.CreateProduct(ProductInput{
				Nome:          "stress-product",
				UnidadeMedida: UnitUnits,
				Categoria:     CategoryStockable,
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}

func TestClientHandlesMalformedJSON(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	})

	_, err := client.GetProduct(1)
	require.Error(t, err)
}

func TestClientUnicodePayload(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body RecipeInput
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "Pão de queijo 🧀", body.Nome)
		w.Write(jsonResponse(map[string]any{"id": 1, "nome": body.Nome}))
	})

	out, err := client.CreateRecipe(RecipeInput{
		Nome:             "Pão de queijo 🧀",
		Descricao:        "Clássico mineiro",
		TempoPreparo:     "40 min",
		Rendimento:       "20 unidades",
		Tipo:             "Salgado",
		ProfessorReceita: "Ana",
		Produtos:         []RecipeItem{{ProdutoID: 1, Quantidade: 500}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pão de queijo 🧀", out.Nome)
}
