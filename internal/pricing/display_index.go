package pricing

// DisplayItems is the resolver output in input order.
type DisplayItems []DisplayItem

// ProductSlugs returns the distinct product slugs across the lines, in first
// appearance order.
func (d DisplayItems) ProductSlugs() []string {
	seen := make(map[string]struct{}, len(d))
	slugs := make([]string, 0, len(d))
	for _, item := range d {
		if _, ok := seen[item.ProductSlug]; ok {
			continue
		}
		seen[item.ProductSlug] = struct{}{}
		slugs = append(slugs, item.ProductSlug)
	}
	return slugs
}

// Index builds the dual-key lookup over the lines. The order-item slug is the
// canonical key; the product slug is a secondary index kept for the render
// paths that only know the product.
func (d DisplayItems) Index() *DisplayIndex {
	ix := &DisplayIndex{
		items:     d,
		byItem:    make(map[string]int, len(d)),
		byProduct: make(map[string]int, len(d)),
	}
	for i, item := range d {
		ix.byItem[item.ItemSlug] = i
		// first line wins when a product appears on several lines
		if _, ok := ix.byProduct[item.ProductSlug]; !ok {
			ix.byProduct[item.ProductSlug] = i
		}
	}
	return ix
}

// DisplayIndex resolves display lines by order-item slug or product slug.
type DisplayIndex struct {
	items     DisplayItems
	byItem    map[string]int
	byProduct map[string]int
}

// ByItemSlug resolves a line by its canonical order-item slug.
func (ix *DisplayIndex) ByItemSlug(slug string) (DisplayItem, bool) {
	if i, ok := ix.byItem[slug]; ok {
		return ix.items[i], true
	}
	return DisplayItem{}, false
}

// ByProductSlug resolves a line through the secondary product index.
func (ix *DisplayIndex) ByProductSlug(slug string) (DisplayItem, bool) {
	if i, ok := ix.byProduct[slug]; ok {
		return ix.items[i], true
	}
	return DisplayItem{}, false
}

// Lookup tries the canonical key first, then the product index.
func (ix *DisplayIndex) Lookup(key string) (DisplayItem, bool) {
	if item, ok := ix.ByItemSlug(key); ok {
		return item, true
	}
	return ix.ByProductSlug(key)
}
