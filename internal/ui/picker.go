package ui

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gastroflow/gastroflow-cli/internal/ui/components"
)

type pickerAction int

const (
	pickerNone pickerAction = iota
	pickerDone
	pickerCancel
)

// pickerPrompt selects what is asked after a record is chosen.
type pickerPrompt int

const (
	promptNone pickerPrompt = iota
	promptQuantity
	promptWholeQuantity
	promptQuantityPrice
)

// Picker lets the user choose one record from a list and optionally enter
// a quantity (and unit price) for it.
type Picker[T any] struct {
	list   *ListView[T]
	prompt pickerPrompt
	label  func(T) string

	open    bool
	picked  *T
	amounts *Form

	qty   float64
	price float64
}

func newPicker[T any](list *ListView[T], prompt pickerPrompt, label func(T) string) *Picker[T] {
	return &Picker[T]{list: list, prompt: prompt, label: label}
}

// Open shows the picker and loads its list when it has never loaded.
func (p *Picker[T]) Open() tea.Cmd {
	p.open = true
	p.picked = nil
	p.amounts = nil
	if p.list.Controller().Total() == 0 && !p.list.Controller().Loading() {
		return p.list.Load()
	}
	return nil
}

func (p *Picker[T]) IsOpen() bool { return p.open }

func (p *Picker[T]) List() *ListView[T] { return p.list }

// Result returns the chosen record with its amounts after pickerDone.
func (p *Picker[T]) Result() (T, float64, float64) {
	var zero T
	if p.picked == nil {
		return zero, 0, 0
	}
	return *p.picked, p.qty, p.price
}

func (p *Picker[T]) SetWidth(width int) { p.list.SetWidth(width) }

// Loaded forwards a list result to the picker list.
func (p *Picker[T]) Loaded(msg listLoadedMsg[T]) (bool, tea.Cmd) {
	return p.list.Loaded(msg)
}

// HandleKey drives the picker. pickerDone and pickerCancel close it.
func (p *Picker[T]) HandleKey(msg tea.KeyMsg) (pickerAction, tea.Cmd) {
	if p.amounts != nil {
		return p.handleAmountKeys(msg), nil
	}
	if handled, cmd := p.list.HandleKey(msg); handled {
		return pickerNone, cmd
	}
	switch {
	case isBack(msg):
		p.open = false
		return pickerCancel, nil
	case isEnter(msg):
		item, ok := p.list.Current()
		if !ok {
			return pickerNone, nil
		}
		p.picked = &item
		if p.prompt == promptNone {
			p.open = false
			return pickerDone, nil
		}
		p.amounts = p.amountForm(item)
	}
	return pickerNone, nil
}

func (p *Picker[T]) amountForm(item T) *Form {
	title := fmt.Sprintf("Amount for %s", p.label(item))
	if p.prompt == promptQuantityPrice {
		return newForm(title, textField("Quantity"), textField("Unit price"))
	}
	return newForm(title, textField("Quantity"))
}

func (p *Picker[T]) handleAmountKeys(msg tea.KeyMsg) pickerAction {
	switch p.amounts.Update(msg) {
	case formCancel:
		p.amounts = nil
		p.picked = nil
	case formSubmit:
		qty, price, err := p.parseAmounts()
		if err != "" {
			p.amounts.err = err
			return pickerNone
		}
		p.qty, p.price = qty, price
		p.amounts = nil
		p.open = false
		return pickerDone
	}
	return pickerNone
}

func (p *Picker[T]) parseAmounts() (float64, float64, string) {
	qty, err := parseNumber(p.amounts.Value(0))
	if err != nil || qty <= 0 {
		return 0, 0, "Quantity must be a number greater than zero."
	}
	if p.prompt == promptWholeQuantity && qty != math.Trunc(qty) {
		return 0, 0, "Quantity must be a whole number."
	}
	var price float64
	if p.prompt == promptQuantityPrice {
		price, err = parseNumber(p.amounts.Value(1))
		if err != nil || price < 0 {
			return 0, 0, "Unit price must be a number of zero or more."
		}
	}
	return qty, price, ""
}

func (p *Picker[T]) View(width int) string {
	if p.amounts != nil {
		return p.amounts.View(width)
	}
	return p.list.View()
}

func (p *Picker[T]) Hints() []string {
	if p.amounts != nil {
		return []string{
			components.Hint("enter", "Next"),
			components.Hint("ctrl+s", "Confirm"),
			components.Hint("esc", "Back"),
		}
	}
	hints := listHints(p.list)
	if !p.list.Filtering() {
		hints = append(hints, components.Hint("esc", "Close"))
	}
	return hints
}
