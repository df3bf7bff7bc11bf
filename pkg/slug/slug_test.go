// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvkhoa/tosho/pkg/slug"
)

/*
TestFrom_Basic verifies the sanitization pipeline on common title shapes.
*/
func TestFrom_Basic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Solo Leveling", "solo-leveling"},
		{"punctuation", "Attack on Titan!", "attack-on-titan"},
		{"extra_whitespace", "  One   Piece  ", "one-piece"},
		{"accents", "Café Liégeois", "cafe-liegeois"},
		{"cyrillic", "Атака Титанов", "ataka-titanov"},
		{"mixed_scripts", "Наруто Shippuden", "naruto-shippuden"},
		{"digits", "86: Eighty-Six", "86-eighty-six"},
		{"repeated_separators", "a -- b__c", "a-b-c"},
		{"empty", "", ""},
		{"only_symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Deterministic asserts that repeated calls on the same input always
produce the same slug. Deduplication of imported works depends on this.
*/
func TestFrom_Deterministic(t *testing.T) {
	inputs := []string{"Attack on Titan!", "Атака Титанов", "ベルセルク"}

	for _, input := range inputs {
		first := slug.From(input)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, slug.From(input))
		}
	}
}

/*
TestFrom_Truncation verifies slugs are capped at 100 characters and never
end with a dangling hyphen after the cut.
*/
func TestFrom_Truncation(t *testing.T) {
	long := strings.Repeat("abcde ", 40) // 240 chars pre-sanitization

	got := slug.From(long)

	assert.LessOrEqual(t, len(got), 100)
	assert.False(t, strings.HasSuffix(got, "-"))
	assert.False(t, strings.HasPrefix(got, "-"))
}
