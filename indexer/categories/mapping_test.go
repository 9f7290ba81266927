package categories

import (
	"reflect"
	"testing"
)

func TestMapTrackerCatToNewznab(t *testing.T) {
	m := NewCategoryMapping()
	m.AddCategoryMapping("31", CategoryMoviesHD, "HD Movies")
	m.AddCategoryMapping("31", CategoryMoviesBluRay, "HD Movies")
	m.AddCategoryMapping("7", CategoryTVSD, "TV Episodes")

	tests := []struct {
		name string
		key  string
		want []Category
	}{
		{"Duplicate keys should append in registration order", "31", []Category{CategoryMoviesHD, CategoryMoviesBluRay}},
		{"Single mappings should resolve", "7", []Category{CategoryTVSD}},
		{"Unknown keys should yield nothing", "99", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MapTrackerCatToNewznab(tt.key); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MapTrackerCatToNewznab() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapTorznabCapsToTrackers(t *testing.T) {
	m := NewCategoryMapping()
	m.AddCategoryMapping("31", CategoryMoviesHD, "")
	m.AddCategoryMapping("32", CategoryMoviesSD, "")
	m.AddCategoryMapping("7", CategoryTVSD, "")
	m.AddMultiCategoryMapping(CategoryTVHD, "8", "9")
	// a key that feeds two buckets must not be returned twice
	m.AddCategoryMapping("8", CategoryTVWEBDL, "")

	tests := []struct {
		name  string
		query Categories
		want  []string
	}{
		{"Exact category match", AllCategories.Subset(CategoryMoviesHD.ID), []string{"31"}},
		{"Union of two categories without duplicates",
			AllCategories.Subset(CategoryTVHD.ID, CategoryTVWEBDL.ID), []string{"8", "9"}},
		{"Parent category matches subcategory mappings",
			AllCategories.Subset(CategoryMovies.ID), []string{"31", "32"}},
		{"No matching keys", AllCategories.Subset(CategoryAudio.ID), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MapTorznabCapsToTrackers(tt.query); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MapTorznabCapsToTrackers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoriesFromMapping(t *testing.T) {
	m := NewCategoryMapping()
	m.AddCategoryMapping("1", CategoryMoviesHD, "")
	m.AddCategoryMapping("2", CategoryMoviesHD, "")
	m.AddCategoryMapping("3", CategoryTVHD, "")

	cats := m.Categories()
	if len(cats) != 2 {
		t.Errorf("expected 2 distinct categories, got %d", len(cats))
	}
	if !cats.ContainsCat(CategoryMoviesHD) || !cats.ContainsCat(CategoryTVHD) {
		t.Errorf("missing categories in %v", cats)
	}
}

func TestParentCategory(t *testing.T) {
	tests := []struct {
		name string
		cat  Category
		want Category
	}{
		{"Movies subcategory", CategoryMoviesHD, CategoryMovies},
		{"TV subcategory", CategoryTVAnime, CategoryTV},
		{"Books subcategory", CategoryBooksComics, CategoryBooks},
		{"Other stays other", CategoryOtherMisc, CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParentCategory(tt.cat); got != tt.want {
				t.Errorf("ParentCategory() = %v, want %v", got, tt.want)
			}
		})
	}
}
