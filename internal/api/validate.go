package api

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ValidationError rejects an input before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MinPasswordLength is the shortest accepted account password.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	return err == nil
}

func required(field, value, message string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: message}
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Validate checks a product before create or update.
func (in ProductInput) Validate() error {
	if err := firstError(
		required("nome", in.Nome, "name is required"),
		required("unidadeMedida", in.UnidadeMedida, "unit is required"),
		required("categoria", in.Categoria, "category is required"),
	); err != nil {
		return err
	}
	if !oneOf(in.UnidadeMedida, Units) {
		return ValidationError{Field: "unidadeMedida", Message: fmt.Sprintf("unit must be one of %s", strings.Join(Units, ", "))}
	}
	if !oneOf(in.Categoria, Categories) {
		return ValidationError{Field: "categoria", Message: fmt.Sprintf("category must be one of %s", strings.Join(Categories, ", "))}
	}
	if in.Quantidade < 0 {
		return ValidationError{Field: "quantidadeEstoque", Message: "stock cannot be negative"}
	}
	return nil
}

// Validate checks a stock update.
func (in StockInput) Validate() error {
	if in.Quantidade < 0 {
		return ValidationError{Field: "quantidadeEstoque", Message: "stock cannot be negative"}
	}
	return nil
}

// Validate checks a supplier before create or update.
func (in SupplierInput) Validate() error {
	if err := firstError(
		required("razaoSocial", in.RazaoSocial, "legal name is required"),
		required("telefone", in.Telefone, "phone is required"),
		required("endereco", in.Endereco, "address is required"),
		required("email", in.Email, "email is required"),
	); err != nil {
		return err
	}
	if !ValidEmail(in.Email) {
		return ValidationError{Field: "email", Message: "email is not valid"}
	}
	return nil
}

// Validate checks a purchase before create or update.
func (in PurchaseInput) Validate() error {
	if in.FornecedorID <= 0 {
		return ValidationError{Field: "fornecedorId", Message: "select a supplier"}
	}
	if len(in.Produtos) == 0 {
		return ValidationError{Field: "produtos", Message: "add at least one product"}
	}
	if strings.TrimSpace(in.DataEntrada) == "" {
		return ValidationError{Field: "dataEntrada", Message: "select the date"}
	}
	if !ValidDate(DatePart(in.DataEntrada)) {
		return ValidationError{Field: "dataEntrada", Message: "date must be YYYY-MM-DD"}
	}
	for _, item := range in.Produtos {
		if item.Quantidade <= 0 {
			return ValidationError{Field: "produtos", Message: "quantity must be greater than zero"}
		}
		if item.Preco < 0 {
			return ValidationError{Field: "produtos", Message: "price cannot be negative"}
		}
	}
	return nil
}

// Validate checks a recipe before create or update.
func (in RecipeInput) Validate() error {
	if err := firstError(
		required("nome", in.Nome, "recipe name is required"),
		required("descricao", in.Descricao, "description is required"),
	); err != nil {
		return err
	}
	if len(in.Produtos) == 0 {
		return ValidationError{Field: "produtos", Message: "add at least one ingredient"}
	}
	if err := firstError(
		required("tempoPreparo", in.TempoPreparo, "preparation time is required"),
		required("rendimento", in.Rendimento, "yield is required"),
		required("tipo", in.Tipo, "type is required"),
		required("professorReceita", in.ProfessorReceita, "author is required"),
	); err != nil {
		return err
	}
	for _, item := range in.Produtos {
		if item.Quantidade <= 0 {
			return ValidationError{Field: "produtos", Message: "ingredient quantity must be greater than zero"}
		}
	}
	return nil
}

// Validate checks a class before create or update.
func (in ClassInput) Validate() error {
	if err := firstError(
		required("nome", in.Nome, "class name is required"),
		required("descricao", in.Descricao, "description is required"),
		required("data", in.Data, "date is required"),
	); err != nil {
		return err
	}
	if !ValidDate(DatePart(in.Data)) {
		return ValidationError{Field: "data", Message: "date must be YYYY-MM-DD"}
	}
	if err := firstError(
		required("instrutor", in.Instrutor, "instructor is required"),
		required("materia", in.Materia, "subject is required"),
	); err != nil {
		return err
	}
	if in.Semestre != 1 && in.Semestre != 2 {
		return ValidationError{Field: "semestre", Message: "semester must be 1 or 2"}
	}
	if in.Modulo < 1 || in.Modulo > 3 {
		return ValidationError{Field: "modulo", Message: "module must be 1, 2 or 3"}
	}
	if !oneOf(in.Periodo, Periods) {
		return ValidationError{Field: "periodo", Message: fmt.Sprintf("period must be one of %s", strings.Join(Periods, ", "))}
	}
	if len(in.Receitas) == 0 {
		return ValidationError{Field: "receitas", Message: "select at least one recipe"}
	}
	return nil
}

// Validate checks login credentials.
func (in LoginInput) Validate() error {
	return firstError(
		required("email", in.Email, "email is required"),
		required("password", in.Password, "password is required"),
	)
}

// Validate checks a new account before registration.
func (in RegisterInput) Validate() error {
	if err := firstError(
		required("name", in.Name, "name is required"),
		required("email", in.Email, "email is required"),
		required("password", in.Password, "password is required"),
		required("confirm", in.Confirm, "password confirmation is required"),
	); err != nil {
		return err
	}
	if !ValidEmail(in.Email) {
		return ValidationError{Field: "email", Message: "email is not valid"}
	}
	if in.Password != in.Confirm {
		return ValidationError{Field: "confirm", Message: "passwords do not match"}
	}
	if len(in.Password) < MinPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must have at least %d characters", MinPasswordLength)}
	}
	return nil
}
