package shopping

import (
	"time"

	"cozinha-magica/internal/recipe"
)

// ShoppingList is a shopping list taken from one recipe at creation time.
// RecipeID is informational: the source recipe may be edited or deleted later.
type ShoppingList struct {
	ID          string    `json:"id"`
	RecipeID    string    `json:"recipeId"`
	RecipeTitle string    `json:"recipeTitle"`
	Market      string    `json:"market,omitempty"`
	Store       string    `json:"store,omitempty"`
	Date        string    `json:"date,omitempty"`
	Time        string    `json:"time,omitempty"`
	ExtraItems  string    `json:"extraItems,omitempty"`
	Ingredients string    `json:"ingredients"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Details are the optional fields asked for when a list is created.
type Details struct {
	Market     string
	Store      string
	Date       string
	Time       string
	ExtraItems string
}

// Detail names one of the optional fields.
type Detail string

const (
	DetailMarket     Detail = "market"
	DetailStore      Detail = "store"
	DetailDate       Detail = "date"
	DetailTime       Detail = "time"
	DetailExtraItems Detail = "extraItems"
)

// AllDetails lists the optional fields in form order.
var AllDetails = []Detail{DetailMarket, DetailStore, DetailDate, DetailTime, DetailExtraItems}

// Label returns the pt-BR label of a detail.
func (d Detail) Label() string {
	switch d {
	case DetailMarket:
		return "Mercado"
	case DetailStore:
		return "Loja"
	case DetailDate:
		return "Data"
	case DetailTime:
		return "Horário"
	case DetailExtraItems:
		return "Itens extras"
	}
	return string(d)
}

// ParseDetail maps a detail name back to a Detail.
func ParseDetail(name string) (Detail, bool) {
	for _, d := range AllDetails {
		if string(d) == name {
			return d, true
		}
	}
	return "", false
}

// Set returns a copy of d with one field replaced.
func (d Details) Set(field Detail, value string) Details {
	switch field {
	case DetailMarket:
		d.Market = value
	case DetailStore:
		d.Store = value
	case DetailDate:
		d.Date = value
	case DetailTime:
		d.Time = value
	case DetailExtraItems:
		d.ExtraItems = value
	}
	return d
}

// Get returns the value of one field.
func (d Details) Get(field Detail) string {
	switch field {
	case DetailMarket:
		return d.Market
	case DetailStore:
		return d.Store
	case DetailDate:
		return d.Date
	case DetailTime:
		return d.Time
	case DetailExtraItems:
		return d.ExtraItems
	}
	return ""
}

// New snapshots the identity, title and ingredients of r into a new list.
func New(r recipe.Recipe, d Details, id string, now time.Time) ShoppingList {
	return ShoppingList{
		ID:          id,
		RecipeID:    r.ID,
		RecipeTitle: r.Title,
		Ingredients: r.Ingredients,
		Market:      d.Market,
		Store:       d.Store,
		Date:        d.Date,
		Time:        d.Time,
		ExtraItems:  d.ExtraItems,
		CreatedAt:   now,
	}
}

// FileName is the export name used for a list.
func (l ShoppingList) FileName() string {
	return "lista-" + l.RecipeTitle
}

// Details returns the optional fields of the list.
func (l ShoppingList) Details() Details {
	return Details{Market: l.Market, Store: l.Store, Date: l.Date, Time: l.Time, ExtraItems: l.ExtraItems}
}
