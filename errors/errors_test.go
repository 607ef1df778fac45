package errors

import (
	"testing"
)

func TestClassSurvivesWrapping(t *testing.T) {
	err := NewLogicf("Conflict option `%s` unrecognized.", "upsert")
	if !IsLogic(err) {
		t.Fatal("fresh LOGIC error not recognized")
	}

	wrapped := Wrap(err, "while evaluating insert")
	if !IsLogic(wrapped) {
		t.Error("LOGIC class lost after Wrap")
	}

	messaged := WithMessage(wrapped, "FOR_EACH expects one or more basic write queries.")
	if !IsLogic(messaged) {
		t.Error("LOGIC class lost after WithMessage")
	}
}

func TestClassesAreDisjoint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
		not  []func(error) bool
	}{
		{"logic", NewLogicf("bad option"), IsLogic, []func(error) bool{IsNonExistence, IsResourceLimit, IsOpFailed}},
		{"non-existence", NewNonExistencef("no such row"), IsNonExistence, []func(error) bool{IsLogic, IsResourceLimit, IsOpFailed}},
		{"resource limit", NewResourceLimitf("array too large"), IsResourceLimit, []func(error) bool{IsLogic, IsNonExistence, IsOpFailed}},
		{"op failed", NewOpFailedf("table gone"), IsOpFailed, []func(error) bool{IsLogic, IsNonExistence, IsResourceLimit}},
	}

	for _, tt := range tests {
		if !tt.want(tt.err) {
			t.Errorf("%s: own class check failed", tt.name)
		}
		for _, other := range tt.not {
			if other(tt.err) {
				t.Errorf("%s: matched a foreign class", tt.name)
			}
		}
	}
}

func TestNilIsNoClass(t *testing.T) {
	if IsLogic(nil) || IsNonExistence(nil) || IsResourceLimit(nil) || IsOpFailed(nil) {
		t.Error("nil error matched a class")
	}
}

func TestAssertionFailed(t *testing.T) {
	err := AssertionFailedf("pure merge invoked for key %q", "inserted")
	if !HasAssertionFailed(err) {
		t.Error("assertion error not detected")
	}
	if HasAssertionFailed(NewLogicf("bad option")) {
		t.Error("LOGIC error misdetected as assertion")
	}
}
