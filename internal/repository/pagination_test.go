package repository

import (
	"reflect"
	"testing"

	"github.com/jpashop-api/internal/constants"
)

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []uint
		size int
		want [][]uint
	}{
		{name: "empty", ids: nil, size: 10, want: nil},
		{name: "exact", ids: []uint{1, 2, 3, 4}, size: 2, want: [][]uint{{1, 2}, {3, 4}}},
		{name: "remainder", ids: []uint{1, 2, 3}, size: 2, want: [][]uint{{1, 2}, {3}}},
		{name: "default size", ids: []uint{1, 2}, size: 0, want: [][]uint{{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chunkIDs(tt.ids, tt.size); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("chunkIDs want %v got %v", tt.want, got)
			}
		})
	}
}

func TestUniqueIDs(t *testing.T) {
	got := uniqueIDs([]uint{3, 1, 3, 0, 2, 1})
	want := []uint{3, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("uniqueIDs want %v got %v", want, got)
	}
}

func TestNormalizeMaxResults(t *testing.T) {
	if got := normalizeMaxResults(0); got != constants.DefaultMaxResults {
		t.Fatalf("default max results want %d got %d", constants.DefaultMaxResults, got)
	}
	if got := normalizeMaxResults(5); got != 5 {
		t.Fatalf("max results want 5 got %d", got)
	}
}
