package savetrack

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies entries.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	IsCustom  bool      `json:"isCustom"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fixed identifiers of the built-in categories.
var (
	SkippedPurchaseID      = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	UsedCouponID           = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	CookedAtHomeID         = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	CanceledSubscriptionID = uuid.MustParse("00000000-0000-0000-0000-000000000004")
	CheaperOptionID        = uuid.MustParse("00000000-0000-0000-0000-000000000005")
	OtherID                = uuid.MustParse("00000000-0000-0000-0000-000000000006")
)

// DefaultCategories returns the built-in categories, created at now.
func DefaultCategories(now time.Time) []Category {
	def := func(id uuid.UUID, name, emoji string) Category {
		return Category{ID: id, Name: name, Emoji: emoji, IsDefault: true, CreatedAt: now}
	}
	return []Category{
		def(SkippedPurchaseID, "Skipped Purchase", "🛒"),
		def(UsedCouponID, "Used Coupon", "🎟️"),
		def(CookedAtHomeID, "Cooked at Home", "🏠"),
		def(CanceledSubscriptionID, "Canceled Subscription", "🚫"),
		def(CheaperOptionID, "Cheaper Option", "💡"),
		def(OtherID, "Other", "➕"),
	}
}

// NewCategory creates a user defined category.
func NewCategory(name, emoji string, now time.Time) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: empty name", ErrInvalidCategory)
	}
	if emoji == "" {
		emoji = "➕"
	}
	return Category{ID: uuid.New(), Name: name, Emoji: emoji, IsCustom: true, CreatedAt: now}, nil
}

// Label returns "emoji name".
func (c Category) Label() string { return c.Emoji + " " + c.Name }

// sortCategories orders defaults first, then by name.
func sortCategories(categories []Category) {
	slices.SortStableFunc(categories, func(a, b Category) int {
		if a.IsDefault != b.IsDefault {
			if a.IsDefault {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// FindCategory looks up a category by id, or by case-insensitive name.
func FindCategory(categories []Category, key string) (Category, bool) {
	if id, err := uuid.Parse(key); err == nil {
		for _, c := range categories {
			if c.ID == id {
				return c, true
			}
		}
		return Category{}, false
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(key)) {
			return c, true
		}
	}
	return Category{}, false
}

// categoryIndex indexes categories by id.
func categoryIndex(categories []Category) map[uuid.UUID]Category {
	index := make(map[uuid.UUID]Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index
}
