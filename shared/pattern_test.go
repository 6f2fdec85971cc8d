package shared

import (
	"testing"
)

func TestPatternKindString(t *testing.T) {
	tests := []struct {
		name string
		kind PatternKind
		want string
	}{
		{
			"cup with handle",
			CupWithHandle,
			"cup_with_handle",
		},
		{
			"head and shoulders",
			HeadAndShoulders,
			"head_and_shoulders",
		},
		{
			"double top",
			DoubleTop,
			"double_top",
		},
		{
			"ascending triangle",
			AscendingTriangle,
			"ascending_triangle",
		},
		{
			"unknown pattern kind",
			PatternKind(999),
			"unknown",
		},
	}

	for _, test := range tests {
		str := test.kind.String()
		if str != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, str)
		}
	}
}

func TestPatternKindsCoverAllMetadata(t *testing.T) {
	if len(PatternKinds) != len(patternMetadata) {
		t.Fatalf("expected metadata for %d kinds, got %d", len(PatternKinds), len(patternMetadata))
	}

	for _, kind := range PatternKinds {
		meta := FetchPatternMetadata(kind)
		if meta.DisplayName == "" || meta.Description == "" || meta.SuccessRate == "" {
			t.Errorf("%s: incomplete metadata: %+v", kind.String(), meta)
		}
	}
}

func TestFetchPatternMetadataUnknownKind(t *testing.T) {
	meta := FetchPatternMetadata(PatternKind(999))
	if meta.DisplayName != "unknown" {
		t.Errorf("expected display name unknown, got %v", meta.DisplayName)
	}
	if meta.SuccessRate != "Unknown" {
		t.Errorf("expected success rate Unknown, got %v", meta.SuccessRate)
	}
}
