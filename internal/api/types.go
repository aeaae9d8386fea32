package api

import "strings"

// QueryParams holds optional query-string filters. Empty values are dropped.
type QueryParams map[string]string

// --- Catalogue values ---

// Product categories as stored by the backend.
const (
	CategoryStockable = "estocaveis"
	CategoryProduce   = "hortifruti"
	CategoryButcher   = "acougues"
	CategoryDairy     = "laticinios"

	// AllCategories is the sentinel the product list sends for "no filter".
	AllCategories = "TODAS_AS_CATEGORIAS"
)

// Categories lists the product categories in display order.
var Categories = []string{CategoryStockable, CategoryProduce, CategoryButcher, CategoryDairy}

var categoryLabels = map[string]string{
	CategoryStockable: "Stockable",
	CategoryProduce:   "Produce",
	CategoryButcher:   "Butcher",
	CategoryDairy:     "Dairy",
	AllCategories:     "All categories",
	"":                "All categories",
}

// CategoryLabel returns the display name of a category code.
func CategoryLabel(code string) string {
	if label, ok := categoryLabels[code]; ok {
		return label
	}
	return code
}

// Units of measure.
const (
	UnitGrams       = "g"
	UnitMilliliters = "ml"
	UnitUnits       = "unidades"
)

// Units lists the units of measure in display order.
var Units = []string{UnitGrams, UnitMilliliters, UnitUnits}

// Class periods.
const (
	PeriodMorning   = "Matutino"
	PeriodAfternoon = "Vespertino"
	PeriodEvening   = "Noturno"
)

// Periods lists the class periods in display order.
var Periods = []string{PeriodMorning, PeriodAfternoon, PeriodEvening}

// --- Product ---

// Product is an ingredient or stock item.
type Product struct {
	ID            int64   `json:"id"`
	Nome          string  `json:"nome"`
	UnidadeMedida string  `json:"unidadeMedida"`
	Categoria     string  `json:"categoria"`
	Quantidade    float64 `json:"quantidadeEstoque"`
}

// ProductInput creates or updates a product.
type ProductInput struct {
	Nome          string  `json:"nome"`
	UnidadeMedida string  `json:"unidadeMedida"`
	Categoria     string  `json:"categoria"`
	Quantidade    float64 `json:"quantidadeEstoque"`
}

// StockInput updates only the stock level.
type StockInput struct {
	Quantidade float64 `json:"quantidadeEstoque"`
}

// ProductFilter selects a page of products.
type ProductFilter struct {
	Nome      string
	Categoria string
}

// ImportResult is the backend answer to a CSV upload. Backends that reply
// with plain text leave Message set and the counters zero.
type ImportResult struct {
	Imported int    `json:"importados"`
	Failed   int    `json:"falhas"`
	Message  string `json:"mensagem"`
}

// --- Supplier ---

// Supplier is a vendor purchases are made from.
type Supplier struct {
	ID           int64  `json:"id"`
	RazaoSocial  string `json:"razaoSocial"`
	NomeFantasia string `json:"nomeFantasia"`
	Telefone     string `json:"telefone"`
	Email        string `json:"email"`
	Endereco     string `json:"endereco"`
}

// DisplayName prefers the trade name over the legal name.
func (s Supplier) DisplayName() string {
	if strings.TrimSpace(s.NomeFantasia) != "" {
		return s.NomeFantasia
	}
	return s.RazaoSocial
}

// SupplierInput creates or updates a supplier.
type SupplierInput struct {
	RazaoSocial  string `json:"razaoSocial"`
	NomeFantasia string `json:"nomeFantasia"`
	Telefone     string `json:"telefone"`
	Email        string `json:"email"`
	Endereco     string `json:"endereco"`
}

// SupplierFilter selects a page of suppliers.
type SupplierFilter struct {
	NomeFantasia string
	Email        string
}

// --- Purchase ---

// PurchaseItem is one product line of a purchase.
type PurchaseItem struct {
	ProdutoID  int64   `json:"produtoId"`
	Quantidade float64 `json:"quantidade"`
	Preco      float64 `json:"preco"`
}

// Purchase (entrada) records goods received from a supplier.
type Purchase struct {
	ID           int64          `json:"id"`
	DataEntrada  string         `json:"dataEntrada"`
	FornecedorID int64          `json:"fornecedorId"`
	Observacao   string         `json:"observacao"`
	Produtos     []PurchaseItem `json:"produtos"`
}

// Date returns the YYYY-MM-DD part of DataEntrada, or "".
func (p Purchase) Date() string {
	return DatePart(p.DataEntrada)
}

// Total sums quantity times price over all lines.
func (p Purchase) Total() float64 {
	var sum float64
	for _, item := range p.Produtos {
		sum += item.Quantidade * item.Preco
	}
	return sum
}

// PurchaseInput creates or updates a purchase.
type PurchaseInput struct {
	DataEntrada  string         `json:"dataEntrada"`
	Observacao   string         `json:"observacao"`
	FornecedorID int64          `json:"fornecedorId"`
	Produtos     []PurchaseItem `json:"produtos"`
}

// DefaultPurchaseNote is sent when a purchase is registered without a note.
const DefaultPurchaseNote = "Compra registrada via sistema"

// --- Recipe ---

// RecipeItem is one ingredient of a recipe.
type RecipeItem struct {
	ProdutoID   int64   `json:"produtoId"`
	Quantidade  float64 `json:"quantidade"`
	NomeProduto string  `json:"nomeProduto,omitempty"`
}

// Recipe is a dish with its ingredient list.
type Recipe struct {
	ID               int64        `json:"id"`
	Nome             string       `json:"nome"`
	Descricao        string       `json:"descricao"`
	TempoPreparo     string       `json:"tempoPreparo"`
	Rendimento       string       `json:"rendimento"`
	Tipo             string       `json:"tipo"`
	ProfessorReceita string       `json:"professorReceita"`
	Produtos         []RecipeItem `json:"produtos"`
}

// RecipeInput creates or updates a recipe.
type RecipeInput struct {
	Nome             string       `json:"nome"`
	Descricao        string       `json:"descricao"`
	TempoPreparo     string       `json:"tempoPreparo"`
	Rendimento       string       `json:"rendimento"`
	Tipo             string       `json:"tipo"`
	ProfessorReceita string       `json:"professorReceita"`
	Produtos         []RecipeItem `json:"produtos"`
}

// --- Class ---

// ClassRecipe links a recipe to a class with a batch count.
type ClassRecipe struct {
	ReceitaID  int64  `json:"receitaId"`
	Quantidade int    `json:"quantidade"`
	Nome       string `json:"nome,omitempty"`
}

// Class (aula) is a scheduled lesson that cooks a set of recipes.
type Class struct {
	ID        int64         `json:"id"`
	Nome      string        `json:"nome"`
	Descricao string        `json:"descricao"`
	Data      string        `json:"data"`
	Instrutor string        `json:"instrutor"`
	Materia   string        `json:"materia"`
	Semestre  int           `json:"semestre"`
	Modulo    int           `json:"modulo"`
	Periodo   string        `json:"periodo"`
	Receitas  []ClassRecipe `json:"receitas"`
}

// ClassInput creates or updates a class.
type ClassInput struct {
	Nome      string        `json:"nome"`
	Descricao string        `json:"descricao"`
	Data      string        `json:"data"`
	Instrutor string        `json:"instrutor"`
	Materia   string        `json:"materia"`
	Semestre  int           `json:"semestre"`
	Modulo    int           `json:"modulo"`
	Periodo   string        `json:"periodo"`
	Receitas  []ClassRecipe `json:"receitas"`
}

// --- Auth ---

// LoginInput is the credential pair for the login endpoint.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterInput creates a user account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Picture  string `json:"picture,omitempty"`
	// Confirm is checked locally and never sent.
	Confirm string `json:"-"`
}

// User is the profile returned by the users endpoint.
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role,omitempty"`
}

// DatePart extracts the leading YYYY-MM-DD of an ISO date or timestamp.
func DatePart(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return ""
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}
