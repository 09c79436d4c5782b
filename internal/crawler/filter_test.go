package crawler

import "testing"

func TestIsRelevantFailOpenOnEmptyRequired(t *testing.T) {
	if !IsRelevant("anything at all", nil, nil, 1) {
		t.Fatalf("IsRelevant with no required keywords = false, want true")
	}
	// even excluded keywords do not apply when the required list is empty
	if !IsRelevant("alpha excludeme", nil, []string{"excludeme"}, 1) {
		t.Fatalf("IsRelevant with empty required but matching excluded = false, want true")
	}
}

func TestIsRelevantThreshold(t *testing.T) {
	required := []string{"alpha", "gamma"}

	if !IsRelevant("alpha beta", required, nil, 1) {
		t.Fatalf("threshold 1 with one match = false, want true")
	}
	if IsRelevant("alpha beta", required, nil, 2) {
		t.Fatalf("threshold 2 with one match = true, want false")
	}
	if !IsRelevant("alpha gamma", required, nil, 2) {
		t.Fatalf("threshold 2 with two matches = false, want true")
	}
}

func TestIsRelevantExclusionOverridesInclusion(t *testing.T) {
	if IsRelevant("alpha excludeme", []string{"alpha"}, []string{"excludeme"}, 1) {
		t.Fatalf("excluded keyword should reject regardless of matches")
	}
}

func TestIsRelevantCaseInsensitive(t *testing.T) {
	if !IsRelevant("북한 ICBM 발사", []string{"icbm"}, nil, 1) {
		t.Fatalf("required match should be case-insensitive")
	}
	if IsRelevant("Sponsored Content", []string{"content"}, []string{"SPONSORED"}, 1) {
		t.Fatalf("excluded match should be case-insensitive")
	}
}

func TestIsRelevantIgnoresEmptyKeywords(t *testing.T) {
	// stray empty strings in the lists must not match everything
	if IsRelevant("beta", []string{"alpha", ""}, nil, 1) {
		t.Fatalf("empty required keyword counted as a match")
	}
	if !IsRelevant("alpha", []string{"alpha"}, []string{""}, 1) {
		t.Fatalf("empty excluded keyword rejected the text")
	}
}
