package pricing

import "strings"

// Classifier category names. Every name below must exist in the registry
// before invoice pricing runs; Classify fails with CategoryNotConfiguredError
// otherwise.
const (
	CategoryInk         = "Ink"
	CategoryAdaptors    = "Adaptors"
	CategoryHeadphones  = "Headphones"
	CategoryRouters     = "Routers"
	CategoryUPS         = "UPS"
	CategoryLaptopBags  = "Laptop Bags"
	CategoryLaptops     = "Laptops"
	CategoryDesktops    = "Desktops"
	CategorySubWoofers  = "Sub Woofers"
	CategorySpeakers    = "Speakers"
	CategoryAccessories = "Accessories"
)

// ReservedCategoryNames lists every category the classifier can resolve to.
// The registry must be seeded with all of them, and category deletion refuses
// these names.
var ReservedCategoryNames = []string{
	CategoryInk,
	CategoryAdaptors,
	CategoryHeadphones,
	CategoryRouters,
	CategoryUPS,
	CategoryLaptopBags,
	CategoryLaptops,
	CategoryDesktops,
	CategorySubWoofers,
	CategorySpeakers,
	CategoryAccessories,
}

// classifierRule pairs a predicate with the category it resolves to.
type classifierRule struct {
	match    func(desc string) bool
	category string
}

func containsAny(desc string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// classifierRules is a priority-ordered decision table: rules are evaluated
// top to bottom and the first match wins. The ordering is a correctness
// requirement, not an optimization — "Laptop Bags" must be checked before
// "Laptops" (bag descriptions contain laptop keywords), and "Sub Woofers"
// before "Speakers". Do not reorder, and do not replace this with a map.
var classifierRules = []classifierRule{
	{func(d string) bool { return containsAny(d, "INK", "CARTRIDGE", "TONER") }, CategoryInk},
	{func(d string) bool { return containsAny(d, "ADAPTER", "CHARGER", "POWER SUPPLY") }, CategoryAdaptors},
	{func(d string) bool { return containsAny(d, "HEADPHONE", "EARPHONE", "HEADSET") }, CategoryHeadphones},
	{func(d string) bool { return containsAny(d, "ROUTER", "WIFI") }, CategoryRouters},
	{func(d string) bool { return containsAny(d, "UPS", "BATTERY BACKUP", "UNINTERRUPTIBLE") }, CategoryUPS},
	{func(d string) bool { return containsAny(d, "LAPTOP BAG", "NOTEBOOK BAG", "CARRYING CASE") }, CategoryLaptopBags},
	{func(d string) bool { return containsAny(d, "LAPTOP", "NOTEBOOK", "MACBOOK") }, CategoryLaptops},
	{func(d string) bool { return containsAny(d, "DESKTOP", "PC", "WORKSTATION") }, CategoryDesktops},
	{func(d string) bool {
		return containsAny(d, "SPEAKER", "SUBWOOFER", "SUB WOOFER") && containsAny(d, "SUB", "WOOFER")
	}, CategorySubWoofers},
	{func(d string) bool { return containsAny(d, "SPEAKER") }, CategorySpeakers},
}

// ClassifyName resolves a free-text item description to a category name
// using the ordered keyword rules. Descriptions matching no rule fall back
// to "Accessories". Pure and deterministic.
func ClassifyName(description string) string {
	desc := strings.ToUpper(description)
	for _, rule := range classifierRules {
		if rule.match(desc) {
			return rule.category
		}
	}
	return CategoryAccessories
}

// Classify resolves a description to its Category in the registry snapshot.
// Returns CategoryNotConfiguredError when the resolved name is not seeded.
func Classify(description string, reg Registry) (Category, error) {
	return reg.Lookup(ClassifyName(description))
}
