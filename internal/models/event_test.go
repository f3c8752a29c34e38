package models

import (
	"reflect"
	"testing"
)

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Errorf("Categories() entry %q reported invalid", c)
		}
	}

	for _, c := range []Category{"", "Music", "concerts", "misc"} {
		if c.Valid() {
			t.Errorf("Category(%q).Valid() = true, want false", c)
		}
	}
}

func TestEvent_AddTags(t *testing.T) {
	var e Event

	e.AddTags("music", "jazz")
	e.AddTags("jazz", "live", "")

	want := []string{"jazz", "live", "music"}
	if !reflect.DeepEqual(e.Tags, want) {
		t.Errorf("Tags = %v, want %v", e.Tags, want)
	}
}

func TestLocation_Empty(t *testing.T) {
	if !(Location{}).Empty() {
		t.Error("zero Location not Empty")
	}

	if (Location{VenueName: "The Blue Door"}).Empty() {
		t.Error("Location with venue reported Empty")
	}

	lat, lon := 42.1, -72.6
	if (Location{Latitude: &lat, Longitude: &lon}).Empty() {
		t.Error("Location with coordinates reported Empty")
	}
}

func TestLocation_HasCoordinates(t *testing.T) {
	lat, lon := 42.1, -72.6

	if (Location{Latitude: &lat}).HasCoordinates() {
		t.Error("latitude alone should not count as coordinates")
	}

	if !(Location{Latitude: &lat, Longitude: &lon}).HasCoordinates() {
		t.Error("HasCoordinates = false with both set")
	}
}
