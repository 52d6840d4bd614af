package recipe

// catalog is the fixed set of ingredients offered to the AI generator.
var catalog = []string{
	"Abacate", "Abobrinha", "Açúcar", "Alface", "Alho", "Arroz", "Azeite", "Batata", "Beringela", "Brócolis",
	"Carne (Bovina)", "Carne (Frango)", "Carne (Suína)", "Cebola", "Cenoura", "Cheiro-verde", "Chocolate",
	"Couve-flor", "Creme de Leite", "Farinha de Trigo", "Feijão", "Fermento", "Leite", "Leite Condensado",
	"Limão", "Macarrão", "Manteiga", "Milho", "Molho de Tomate", "Ovos", "Pão", "Pimenta", "Pimentão",
	"Queijo", "Sal", "Tomate", "Vinagre",
}

// Catalog returns the ingredient catalog in display order.
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// InCatalog reports whether name is one of the catalog ingredients.
func InCatalog(name string) bool {
	return CatalogIndex(name) >= 0
}

// CatalogIndex returns the position of name in the catalog, or -1.
func CatalogIndex(name string) int {
	for i, c := range catalog {
		if c == name {
			return i
		}
	}
	return -1
}
