package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromScore_IELTS(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  Level
	}{
		{"band 3.5 floor", 3.5, 4},
		{"band 4.5", 4.5, 5},
		{"band 5.5", 5.5, 6},
		{"band 6.0", 6.0, 7},
		{"band 6.5", 6.5, 8},
		{"band 7.0", 7.0, 9},
		{"band 7.5", 7.5, 9},
		{"band 8.0", 8.0, 10},
		{"band 8.5", 8.5, 10},
		{"band 9.0 top", 9.0, 12},
		{"zero not evaluable", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromScore(TestIELTS, tt.score))
		})
	}
}

func TestFromScore_CELPIP(t *testing.T) {
	assert.Equal(t, Level(4), FromScore(TestCELPIP, 4))
	assert.Equal(t, Level(9), FromScore(TestCELPIP, 9))
	assert.Equal(t, Level(12), FromScore(TestCELPIP, 12))
	assert.Equal(t, Level(0), FromScore(TestCELPIP, 3))
	assert.Equal(t, Level(0), FromScore(TestCELPIP, 13))
}

func TestFromScore_PTE(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{10, 4},
		{35, 4},
		{35.5, 4},
		{36, 5},
		{46, 5},
		{46.5, 5},
		{47, 6},
		{54.5, 6},
		{55, 7},
		{62.5, 7},
		{63, 8},
		{74.5, 8},
		{75, 9},
		{82.5, 9},
		{83, 10},
		{90, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromScore(TestPTE, tt.score), "score %v", tt.score)
	}
}

func TestFromScore_UnknownTest(t *testing.T) {
	assert.Equal(t, Level(0), FromScore("toefl", 100))
	assert.Equal(t, Level(0), FromScore("", 7.5))
}

func TestFromScore_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Level(9), FromScore(" IELTS ", 7.5))
}

func TestBinding(t *testing.T) {
	assert.Equal(t, Level(7), Binding(9, 7, 10, 8))
	assert.Equal(t, Level(8), Binding(0, 8, 9, 0))
	assert.Equal(t, Level(0), Binding(0, 0, 0, 0))
	assert.Equal(t, Level(0), Binding())
}
