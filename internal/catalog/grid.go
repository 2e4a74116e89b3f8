package catalog

// GridItemKind discriminates real products from layout padding in a grid.
type GridItemKind int

const (
	GridProduct GridItemKind = iota
	GridPlaceholder
)

// GridItem is one cell of a product grid: either a product or an invisible
// placeholder that keeps the last row of the grid aligned.
type GridItem struct {
	Kind    GridItemKind
	Product *Product
}

// PadGrid lays products out as grid cells, appending placeholders so the
// number of cells is a multiple of columns. columns < 2 returns the products
// unpadded.
func PadGrid(products []Product, columns int) []GridItem {
	items := make([]GridItem, 0, len(products))
	for i := range products {
		items = append(items, GridItem{Kind: GridProduct, Product: &products[i]})
	}
	if columns < 2 || len(products) == 0 {
		return items
	}
	for len(items)%columns != 0 {
		items = append(items, GridItem{Kind: GridPlaceholder})
	}
	return items
}
