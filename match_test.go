package ahocorasick

import (
	"reflect"
	"testing"
)

type endVal struct {
	End int
	Val int
}

func collect(a *PackedAutomaton[int], text []byte) []endVal {
	var got []endVal
	Run(a, text, 0, len(text), 0, func(acc int, m Match[int]) Next[int] {
		got = append(got, endVal{m.EndIndex, m.Value})
		return Step(acc)
	})
	return got
}

// spec.md §8 scenario 1: classic Aho-Corasick, own-before-inherited ordering.
func TestRun_HeSheHisHers(t *testing.T) {
	a := Build([]Needle[int]{
		{Bytes: []byte("he"), Value: 1},
		{Bytes: []byte("she"), Value: 2},
		{Bytes: []byte("his"), Value: 3},
		{Bytes: []byte("hers"), Value: 4},
	})
	got := collect(a, []byte("ushers"))
	want := []endVal{{3, 2}, {3, 1}, {6, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Run(%q) = %v, want %v", "ushers", got, want)
	}
}

// spec.md §8 scenario 2: nested prefixes all fire at their own boundary.
func TestRun_NestedPrefixes(t *testing.T) {
	a := Build([]Needle[int]{
		{Bytes: []byte("a"), Value: 1},
		{Bytes: []byte("ab"), Value: 2},
		{Bytes: []byte("abc"), Value: 3},
	})
	got := collect(a, []byte("abc"))
	want := []endVal{{1, 1}, {2, 2}, {3, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Run(%q) = %v, want %v", "abc", got, want)
	}
}

// spec.md §8 scenario 3: a single repeated needle over a longer run.
func TestRun_RepeatedNeedle(t *testing.T) {
	a := Build([]Needle[int]{{Bytes: []byte("aa"), Value: 1}})
	got := collect(a, []byte("aaaa"))
	want := []endVal{{2, 1}, {3, 1}, {4, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Run(%q) = %v, want %v", "aaaa", got, want)
	}
}

// spec.md §8 scenario 4: a multi-byte UTF-8 needle matched case-sensitively.
func TestRun_MultiByteNeedle(t *testing.T) {
	a := Build([]Needle[int]{{Bytes: []byte("café"), Value: 1}})
	text := []byte("a café au lait")
	got := collect(a, text)
	want := []endVal{{7, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Run(%q) = %v, want %v", text, got, want)
	}
}

// spec.md §8 scenario 6: duplicate needles both report, insertion order.
func TestRun_DuplicateNeedlesBothReport(t *testing.T) {
	a := Build([]Needle[int]{
		{Bytes: []byte("ab"), Value: 10},
		{Bytes: []byte("ab"), Value: 20},
	})
	got := collect(a, []byte("ab"))
	want := []endVal{{2, 10}, {2, 20}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Run(%q) = %v, want %v", "ab", got, want)
	}
}

// spec.md §8 scenario 7: Done on the first match truncates the scan.
func TestRun_DoneTruncatesScan(t *testing.T) {
	a := Build([]Needle[int]{
		{Bytes: []byte("he"), Value: 1},
		{Bytes: []byte("she"), Value: 2},
		{Bytes: []byte("his"), Value: 3},
		{Bytes: []byte("hers"), Value: 4},
	})
	var got []endVal
	Run(a, []byte("ushers"), 0, len("ushers"), 0, func(acc int, m Match[int]) Next[int] {
		got = append(got, endVal{m.EndIndex, m.Value})
		return Done(acc)
	})
	want := []endVal{{3, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Done on first match = %v, want %v", got, want)
	}
}

func TestRun_NeverReadsOutsideBounds(t *testing.T) {
	a := Build([]Needle[int]{{Bytes: []byte("mid"), Value: 1}})
	buf := []byte("XXmidXX")
	got := collect2(a, buf, 2, 3)
	want := []endVal{{3, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Run restricted to [2,5) = %v, want %v", got, want)
	}
}

func collect2(a *PackedAutomaton[int], text []byte, offset, length int) []endVal {
	var got []endVal
	Run(a, text, offset, length, 0, func(acc int, m Match[int]) Next[int] {
		got = append(got, endVal{m.EndIndex, m.Value})
		return Step(acc)
	})
	return got
}

func TestRun_CaseSensitiveDoesNotFoldCase(t *testing.T) {
	a := Build([]Needle[int]{{Bytes: []byte("abc"), Value: 1}})
	if got := collect(a, []byte("ABC")); len(got) != 0 {
		t.Fatalf("case-sensitive Run matched %v on ABC, want none", got)
	}
}
